package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/search"
	"github.com/spigell/jobmatch/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter postings and rank them against the active CV",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "match title, company or a single requirement")
	searchCmd.Flags().StringP("location", "l", "", "location substring")
	searchCmd.Flags().StringP("job-type", "t", filtering.AllJobTypes, "exact job type (Full-time, Part-time, Contract, Remote, Internship) or 'all'; any other value is rejected")
	searchCmd.Flags().BoolP("remote", "r", false, "only remote postings")
	searchCmd.Flags().Int("salary-min", 0, "accepted for saved searches, does not filter")
	searchCmd.Flags().String("experience-level", filtering.AllJobTypes, "accepted for saved searches, does not filter")
	searchCmd.Flags().StringP("output", "o", OutputTable, "output format: table or json")
	searchCmd.Flags().BoolP("watch", "w", false, "re-run the search when the config file changes")
	searchCmd.Flags().BoolP("interactive", "i", false, "choose postings to save or apply in a menu")

	for _, name := range []string{"query", "location", "job-type", "remote", "salary-min", "experience-level"} {
		viper.BindPFlag("search."+name, searchCmd.Flags().Lookup(name))
	}
}

// searcher runs searches for one user and joins the results with the user's relations.
type searcher struct {
	service *search.Service
	session *session.Session
	profile *jobs.Profile
	logger  *zap.Logger
}

func newSearcher(ctx context.Context, b *backend, config *Config, logger *zap.Logger) (*searcher, error) {
	s := &searcher{
		service: search.NewService(b.postings, b.profiles, logger),
		logger:  logger,
	}

	if config.User != "" && b.store != nil {
		sess, err := b.signIn(ctx, config.User, logger)
		if err != nil {
			return nil, err
		}
		s.session = sess
		s.profile = sess.Profile()
		// An inline profile wins for ranking. Applications still use the stored CV.
		if config.Profile.HasSkills() {
			s.profile = config.Profile
		}
		return s, nil
	}

	profile, err := s.service.Profile(ctx, config.User)
	if err != nil {
		return nil, err
	}
	if profile == nil && config.Profile.HasSkills() {
		profile = config.Profile
	}
	s.profile = profile
	return s, nil
}

func (s *searcher) Run(ctx context.Context, c filtering.Criteria) ([]session.View, error) {
	results, err := s.service.Search(ctx, c, s.profile)
	if err != nil {
		return nil, err
	}
	if s.session != nil {
		return s.session.Join(results), nil
	}
	return session.NewRelations(nil, nil).Join(results), nil
}

func runSearch(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	config.Output = outputFormat(cmd, config)
	if err := checkOutput(config.Output); err != nil {
		logger.Fatal("invalid output", zap.Error(err))
	}

	b, err := newBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing postings source", zap.Error(err))
	}
	defer b.Close()

	s, err := newSearcher(ctx, b, config, logger)
	if err != nil {
		logger.Fatal("signing in", zap.Error(err))
	}

	logger.Info("starting the search",
		zap.String("query", config.Search.Query),
		zap.Bool("ranked", s.profile != nil),
	)

	views, err := s.Run(ctx, config.Search)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	watch, _ := cmd.Flags().GetBool("watch")
	interactive, _ := cmd.Flags().GetBool("interactive")

	switch {
	case interactive:
		m := &menu{searcher: s, backend: b, config: config, logger: logger}
		if err := m.Run(ctx, views); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
	case watch:
		if err := renderViews(os.Stdout, config.Output, views); err != nil {
			logger.Fatal("rendering results", zap.Error(err))
		}
		if err := watchSearch(ctx, s, config, logger); err != nil {
			logger.Fatal("watching config", zap.Error(err))
		}
	default:
		if err := renderViews(os.Stdout, config.Output, views); err != nil {
			logger.Fatal("rendering results", zap.Error(err))
		}
		logger.Info("search completed", zap.Int("results", len(views)))
	}
}

// currentCriteria re-reads the search criteria with flags, env and defaults
// layered over the config file, the same way the first run reads them.
func currentCriteria() (filtering.Criteria, error) {
	config, err := getConfig()
	if err != nil {
		return filtering.Criteria{}, err
	}
	return config.Search, nil
}

// watchSearch re-runs the search with the latest criteria after config edits settle.
func watchSearch(ctx context.Context, s *searcher, config *Config, logger *zap.Logger) error {
	if viper.ConfigFileUsed() == "" {
		return errors.New("watch mode needs a config file")
	}

	debouncer := search.NewDebouncer(config.Debounce, func(c filtering.Criteria) {
		views, err := s.Run(ctx, c)
		if err != nil {
			logger.Error("search failed", zap.Error(err))
			return
		}
		fmt.Fprintln(os.Stdout)
		if err := renderViews(os.Stdout, config.Output, views); err != nil {
			logger.Error("rendering results", zap.Error(err))
		}
	})
	defer debouncer.Stop()

	viper.OnConfigChange(func(e fsnotify.Event) {
		c, err := currentCriteria()
		if err != nil {
			logger.Warn("ignoring invalid search section", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Debug("search criteria changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		debouncer.Trigger(c)
	})
	viper.WatchConfig()

	logger.Info("watching config for search changes", zap.String("file", viper.ConfigFileUsed()))
	<-ctx.Done()
	return nil
}
