package jobs

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const postingsKey = "jobs"

//go:embed seed.yaml
var seedData []byte

// Seed returns the built-in sample postings. Postings without a timestamp are stamped with now.
func Seed(now time.Time) (*Postings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(seedData)); err != nil {
		return nil, fmt.Errorf("reading built-in seed: %w", err)
	}
	return decode(v, now)
}

// LoadFile reads postings from a YAML or JSON file holding a top-level "jobs" list.
func LoadFile(path string, now time.Time) (*Postings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("seed file path is empty: %w", ErrInvalidArgument)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading seed file %q: %w", path, err)
	}
	return decode(v, now)
}

func decode(v *viper.Viper, now time.Time) (*Postings, error) {
	var items []*Posting
	cfg := &mapstructure.DecoderConfig{
		Result:  &items,
		TagName: "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jobTypeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v.Get(postingsKey)); err != nil {
		return nil, fmt.Errorf("decoding postings: %w", err)
	}

	for _, posting := range items {
		if posting == nil {
			continue
		}
		if posting.ID == "" {
			posting.ID = uuid.NewString()
		}
		if posting.PostedAt.IsZero() {
			posting.PostedAt = now
		}
		if posting.Requirements == nil {
			posting.Requirements = []string{}
		}
	}

	postings := &Postings{Items: items}
	if err := CheckItems(postings); err != nil {
		return nil, err
	}
	for _, posting := range postings.Items {
		if err := posting.Validate(); err != nil {
			return nil, err
		}
	}
	SortByRecency(postings)

	return postings, nil
}

func jobTypeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(JobType("")) || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseJobType(reflect.ValueOf(data).String())
}

// SortByRecency orders postings newest first. Equal timestamps keep their order.
func SortByRecency(v *Postings) {
	slices.SortStableFunc(v.Items, func(a, b *Posting) int {
		return b.PostedAt.Compare(a.PostedAt)
	})
}
