package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/session"
)

var (
	saveCmd = &cobra.Command{
		Use:   "save POSTING_ID...",
		Short: "Save postings for the user",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withSession(func(ctx context.Context, sess *session.Session, _ *backend, _ *Config, logger *zap.Logger) {
				for _, id := range args {
					if err := sess.Save(ctx, id); err != nil {
						logger.Fatal("saving posting", zap.String("posting_id", id), zap.Error(err))
					}
					logger.Info("posting saved", zap.String("posting_id", id))
				}
			})
		},
	}

	unsaveCmd = &cobra.Command{
		Use:   "unsave POSTING_ID...",
		Short: "Remove postings from the saved list",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withSession(func(ctx context.Context, sess *session.Session, _ *backend, _ *Config, logger *zap.Logger) {
				for _, id := range args {
					if err := sess.Unsave(ctx, id); err != nil {
						logger.Fatal("unsaving posting", zap.String("posting_id", id), zap.Error(err))
					}
					logger.Info("posting unsaved", zap.String("posting_id", id))
				}
			})
		},
	}

	applyCmd = &cobra.Command{
		Use:   "apply POSTING_ID",
		Short: "Apply to a posting with the active CV",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runApply(cmd, args[0])
		},
	}

	savedCmd = &cobra.Command{
		Use:   "saved",
		Short: "List saved postings",
		Run: func(cmd *cobra.Command, _ []string) {
			withSession(func(ctx context.Context, sess *session.Session, b *backend, config *Config, logger *zap.Logger) {
				v, err := b.db.Postings().SavedPostings(ctx, sess.UserID())
				if err != nil {
					logger.Fatal("listing saved postings", zap.Error(err))
				}
				relations := sess.Relations()
				views := make([]session.View, 0, v.Len())
				for _, p := range v.Items {
					views = append(views, session.View{
						ScoredPosting: jobs.ScoredPosting{Posting: p},
						Saved:         true,
						Applied:       relations.IsApplied(p.ID),
					})
				}
				if err := renderViews(os.Stdout, outputFormat(cmd, config), views); err != nil {
					logger.Fatal("rendering results", zap.Error(err))
				}
			})
		},
	}

	applicationsCmd = &cobra.Command{
		Use:   "applications",
		Short: "List the user's applications, newest first",
		Run: func(cmd *cobra.Command, _ []string) {
			withSession(func(ctx context.Context, sess *session.Session, b *backend, config *Config, logger *zap.Logger) {
				applications, err := b.db.Relations().Applications(ctx, sess.UserID())
				if err != nil {
					logger.Fatal("listing applications", zap.Error(err))
				}
				if err := renderApplications(os.Stdout, outputFormat(cmd, config), applications); err != nil {
					logger.Fatal("rendering applications", zap.Error(err))
				}
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(saveCmd, unsaveCmd, applyCmd, savedCmd, applicationsCmd)

	applyCmd.Flags().StringP("message", "m", "", "message sent with the application")
	applyCmd.Flags().Bool("ai-message", false, "draft the message with the configured AI provider")

	for _, c := range []*cobra.Command{savedCmd, applicationsCmd} {
		c.Flags().StringP("output", "o", OutputTable, "output format: table or json")
	}
}

// withSession signs the configured user in and hands the session to fn.
func withSession(fn func(ctx context.Context, sess *session.Session, b *backend, config *Config, logger *zap.Logger)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	b, err := newBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing backend", zap.Error(err))
	}
	defer b.Close()

	if err := b.requireDatabase(); err != nil {
		logger.Fatal("session commands", zap.Error(err))
	}

	sess, err := b.signIn(ctx, config.User, logger)
	if err != nil {
		logger.Fatal("signing in", zap.Error(err), zap.String("hint", "pass --user or set user in the config"))
	}
	defer sess.SignOut()

	fn(ctx, sess, b, config, logger)
}

func runApply(cmd *cobra.Command, postingID string) {
	message, _ := cmd.Flags().GetString("message")
	useAI, _ := cmd.Flags().GetBool("ai-message")

	withSession(func(ctx context.Context, sess *session.Session, b *backend, config *Config, logger *zap.Logger) {
		if useAI && message == "" {
			v, err := b.postings.Postings(ctx)
			if err != nil {
				logger.Fatal("listing postings", zap.Error(err))
			}
			posting := v.FindByID(postingID)
			if posting == nil {
				logger.Fatal("posting not found", zap.String("posting_id", postingID))
			}

			message, err = draftMessage(ctx, config, posting, sess.Profile(), logger)
			if err != nil {
				logger.Fatal("drafting message", zap.Error(err))
			}
		}

		if err := sess.Apply(ctx, postingID, message); err != nil {
			logger.Fatal("applying", zap.String("posting_id", postingID), zap.Error(err))
		}
	})
}
