package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/logger"
	"github.com/spigell/resume-tailor/internal/tailor"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the base résumé for a single job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		job, err := jobFromFlags(cmd)
		if err != nil {
			return err
		}
		tailorOne(cmd.Context(), job)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tailorCmd)

	tailorCmd.Flags().StringP("title", "t", "", "job title")
	tailorCmd.Flags().StringP("company", "c", "", "company name, used for the output file name")
	tailorCmd.Flags().String("description", "", "job description text")
	tailorCmd.Flags().String("description-file", "", "file with the job description")

	tailorCmd.MarkFlagRequired("title")
	tailorCmd.MarkFlagsMutuallyExclusive("description", "description-file")
}

func jobFromFlags(cmd *cobra.Command) (tailor.Job, error) {
	title, _ := cmd.Flags().GetString("title")
	company, _ := cmd.Flags().GetString("company")
	description, _ := cmd.Flags().GetString("description")
	descriptionFile, _ := cmd.Flags().GetString("description-file")

	if descriptionFile != "" {
		data, err := os.ReadFile(descriptionFile)
		if err != nil {
			return tailor.Job{}, fmt.Errorf("reading job description: %w", err)
		}
		description = string(data)
	}

	if strings.TrimSpace(title) == "" {
		return tailor.Job{}, errors.New("job title must not be empty")
	}

	return tailor.Job{Title: title, Company: company, Description: description}, nil
}

func tailorOne(ctx context.Context, job tailor.Job) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	useBasePDF(config.Tailor, logger)

	pipeline, err := buildPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	result, err := pipeline.TailorAndSave(ctx, job)
	if err != nil {
		logger.Fatal("tailoring failed", zap.String("kind", string(tailor.Kind(err))), zap.Error(err))
	}

	logger.Info("done",
		zap.String("document", result.DocumentPath),
		zap.String("description", result.DescriptionPath),
		zap.String("pdf", result.PDFPath),
		zap.String("provider", result.Provider),
	)
}
