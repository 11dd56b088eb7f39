package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/filtering"
	"github.com/spigell/resume-tailor/internal/jobsearch"
	"github.com/spigell/resume-tailor/internal/logger"
	"github.com/spigell/resume-tailor/internal/notify"
	"github.com/spigell/resume-tailor/internal/tailor"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptList           = "List postings"
	PromptPostingsToFile = "Dump postings to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Tailor the résumé for these postings?",
	Items: []string{PromptYes, PromptNo, PromptList, PromptPostingsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search job postings and tailor the base résumé for each of them",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before tailoring")
	runCmd.Flags().Bool("from-cache", false, "read postings from the cache file instead of calling the search API")
	runCmd.Flags().IntP("limit", "l", 0, "number of postings to tailor (default is taken from the config)")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with postings tailored in previous runs")
	runCmd.Flags().StringP("query", "q", "", "search query, overrides search.query")

	viper.BindPFlag("filtering.limit", runCmd.Flags().Lookup("limit"))
	viper.BindPFlag("filtering.exclude_file", runCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("search.query", runCmd.Flags().Lookup("query"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	runID := uuid.NewString()
	logger := logger.WithRun(base, runID)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-tailor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	notifier, err := buildNotifier(config, logger)
	if err != nil {
		logger.Fatal("building notifiers", zap.Error(err))
	}

	notify.Best(ctx, notifier, logger, notify.StartMessage(runID))

	if err := runOnce(ctx, cmd, config, notifier, logger); err != nil {
		if errors.Is(err, errExit) {
			return
		}
		notify.Best(ctx, notifier, logger, notify.CrashedMessage(err))
		logger.Fatal("run failed", zap.Error(err))
	}
}

func runOnce(ctx context.Context, cmd *cobra.Command, config *Config, notifier notify.Notifier, logger *zap.Logger) error {
	fromCache := cmd.Flag("from-cache").Value.String() == "true"

	source, err := buildSource(config, fromCache, logger)
	if err != nil {
		return err
	}

	if useBasePDF(config.Tailor, logger) {
		notify.Best(ctx, notifier, logger, notify.PDFBaseMessage(config.Tailor.BasePDF))
	}

	pipeline, err := buildPipeline(ctx, config, logger)
	if err != nil {
		return err
	}

	params := config.Search
	if params == nil {
		params = &jobsearch.SearchParams{}
	}

	query := jobsearch.BuildQuery(params)
	logger.Info("starting the search", zap.String("query", query), zap.Bool("from_cache", fromCache))
	notify.Best(ctx, notifier, logger, notify.SearchingMessage(query))

	postings, err := source.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	found := postings.Len()
	logger.Info("getting postings", zap.Int("count", found))

	if found == 0 {
		notify.Best(ctx, notifier, logger, notify.NoJobsMessage())
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return nil
	}

	filterCfg := config.Filtering
	if filterCfg == nil {
		filterCfg = &filtering.Config{}
	}

	steps := filtering.Default()
	if filterCfg.ExcludeFile == "" {
		filtering.DisableByName(steps, "exclude_file", "no exclude file configured")
	}

	postings, err = filtering.Run(ctx, filterCfg, filtering.Deps{Logger: logger}, steps, postings)
	if err != nil {
		return fmt.Errorf("filtering: %w", err)
	}

	if postings.Len() == 0 {
		notify.Best(ctx, notifier, logger, notify.NoJobsMessage())
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return nil
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		if err := confirm(postings, logger); err != nil {
			return err
		}
	}

	notify.Best(ctx, notifier, logger, notify.FoundMessage(found, postings.Len()))

	tailored, failed := tailorAll(ctx, pipeline, postings, notifier, logger)

	if filterCfg.ExcludeFile != "" && len(tailored.Items) > 0 {
		if err := appendHistory(filterCfg.ExcludeFile, tailored); err != nil {
			return fmt.Errorf("updating exclude file: %w", err)
		}
		logger.Info("appended to exclude file", zap.String("filename", filterCfg.ExcludeFile))
	}

	notify.Best(ctx, notifier, logger, notify.DoneMessage(len(tailored.Items), failed, config.Tailor.ResumesDir))
	logger.Info("run finished", zap.Int("tailored", len(tailored.Items)), zap.Int("failed", failed))

	return nil
}

// tailorAll tailors the résumé for every posting. A failed job is reported and skipped.
func tailorAll(ctx context.Context, pipeline *tailor.Pipeline, postings *jobsearch.Postings, notifier notify.Notifier, logger *zap.Logger) (*jobsearch.Postings, int) {
	tailored := &jobsearch.Postings{}
	failed := 0

	for _, posting := range postings.Items {
		notify.Best(ctx, notifier, logger, notify.TailoringMessage(posting.Title))

		result, err := pipeline.TailorAndSave(ctx, tailor.Job{
			Title:       posting.Title,
			Company:     posting.Company(),
			Description: posting.Snippet,
		})
		if err != nil {
			failed++
			kind := tailor.Kind(err)
			logger.Error("tailoring failed",
				zap.String("title", posting.Title),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			notify.Best(ctx, notifier, logger, notify.JobFailedMessage(posting.Title, string(kind), err))
			continue
		}

		tailored.Items = append(tailored.Items, posting)
		attachment := result.PDFPath
		if attachment == "" {
			attachment = result.DocumentPath
		}
		notify.BestFile(ctx, notifier, logger, notify.TailoredMessage(result.DocumentPath, result.PDFPath, result.Provider, posting.URL), attachment)
	}

	return tailored, failed
}

func appendHistory(path string, tailored *jobsearch.Postings) error {
	excluded, err := jobsearch.GetExcludedPostingsFromFile(path)
	if err != nil {
		return err
	}

	excluded.Append(tailored.ToExcluded())

	return excluded.ToFile(path)
}

func confirm(postings *jobsearch.Postings, logger *zap.Logger) error {
	for {
		logger.Info("current list of postings", zap.Int("count", postings.Len()))

		_, action, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		switch action {
		case PromptYes:
			return nil
		case PromptNo:
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return errExit
		case PromptList:
			for _, p := range postings.Items {
				logger.Info(p.Title, zap.String("site", p.Site), zap.String("url", p.URL))
			}
		case PromptPostingsToFile:
			filename := fmt.Sprintf("postings-%s.json", time.Now().Format("20060102-150405"))
			if err := postings.DumpToFile(filename); err != nil {
				return fmt.Errorf("dump postings to file: %w", err)
			}
			logger.Info("dumping postings to file", zap.String("filename", filename))
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}
