package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/session"
)

const (
	PromptBack            = "back"
	PromptExit            = "exit"
	PromptReportByCompany = "Report by company"
	PromptResultsToFile   = "Dump results to file"
	PromptSave            = "Save"
	PromptUnsave          = "Unsave"
	PromptApply           = "Apply"
	PromptApplyAI         = "Apply with AI message"
)

var errExit = errors.New("exit requested")

// menu lets the user browse results and act on a single posting.
type menu struct {
	searcher *searcher
	backend  *backend
	config   *Config
	logger   *zap.Logger
}

func (m *menu) Run(ctx context.Context, views []session.View) error {
	for {
		items := make([]string, 0, len(views)+3)
		for _, v := range views {
			items = append(items, viewLabel(v))
		}
		items = append(items, PromptReportByCompany, PromptResultsToFile, PromptExit)

		postingPrompt := promptui.Select{
			Label: fmt.Sprintf("Found %d postings. Choose one and press ENTER", len(views)),
			Items: items,
			Size:  15,
		}

		_, selected, err := postingPrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptExit:
			m.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return errExit
		case PromptReportByCompany:
			pretty, _ := json.MarshalIndent(collect(views).ReportByCompany(), "", "  ")
			m.logger.Info(string(pretty), zap.Int("postings count", len(views)))
		case PromptResultsToFile:
			filename, err := collect(views).DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump results to file: %w", err)
			}
			m.logger.Info("dumping result to file", zap.String("filename", filename))
		default:
			postingID := strings.Split(selected, " ")[0]
			view := findView(views, postingID)
			if view == nil {
				return fmt.Errorf("there is no such posting id %s", postingID)
			}

			if err := m.act(ctx, view); err != nil {
				if errors.Is(err, session.ErrNoCV) || errors.Is(err, errNoDatabase) || errors.Is(err, jobs.ErrInvalidArgument) {
					m.logger.Warn("action is not available", zap.Error(err))
				} else {
					return err
				}
			}

			views, err = m.searcher.Run(ctx, m.config.Search)
			if err != nil {
				return err
			}
		}
	}
}

func (m *menu) act(ctx context.Context, view *session.View) error {
	save := PromptSave
	if view.Saved {
		save = PromptUnsave
	}
	items := []string{save, PromptApply}
	if m.config.AI.Enabled {
		items = append(items, PromptApplyAI)
	}

	actionPrompt := promptui.Select{
		Label: fmt.Sprintf("%s at %s", view.Title, view.Company),
		Items: append(items, PromptBack),
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	sess := m.searcher.session
	if sess == nil && action != PromptBack {
		return errNoDatabase
	}

	switch action {
	case PromptSave, PromptUnsave:
		saved, err := sess.ToggleSave(ctx, view.ID)
		if err != nil {
			return err
		}
		m.logger.Info("saved state changed", zap.String("posting_id", view.ID), zap.Bool("saved", saved))
	case PromptApply:
		return sess.Apply(ctx, view.ID, "")
	case PromptApplyAI:
		message, err := draftMessage(ctx, m.config, view.Posting, sess.Profile(), m.logger)
		if err != nil {
			return err
		}
		return sess.Apply(ctx, view.ID, message)
	}
	return nil
}

func findView(views []session.View, id string) *session.View {
	for i := range views {
		if views[i].ID == id {
			return &views[i]
		}
	}
	return nil
}

func collect(views []session.View) *jobs.Postings {
	items := make([]*jobs.Posting, 0, len(views))
	for _, v := range views {
		items = append(items, v.Posting)
	}
	return &jobs.Postings{Items: items}
}
