package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

type summary struct {
	AccountKey   string      `json:"account_key" yaml:"account_key"`
	Score        float64     `json:"score,omitempty" yaml:"score,omitempty"`
	Stars        float64     `json:"stars,omitempty" yaml:"stars,omitempty"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty"`
	ReviewCount  int         `json:"review_count,omitempty" yaml:"review_count,omitempty"`
	Distribution map[int]int `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	PageURL      string      `json:"review_page_url,omitempty" yaml:"review_page_url,omitempty"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func newSummaryCmd(o *options) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "summary [account-key...]",
		Short: "Print the rating summary of one or more accounts",
		Long: `Load every listed account concurrently and print its rating summary.
Without arguments the keys come from TRUSTPILOT_ACCOUNT_KEYS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = o.cfg.AccountKeys
			}
			if len(keys) == 0 && o.cfg.AccountKey != "" {
				keys = []string{o.cfg.AccountKey}
			}
			if len(keys) == 0 {
				return fmt.Errorf("no account keys given")
			}

			out := o.summarize(cmd.Context(), keys, workers)

			ok, err := o.emit(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			if !ok {
				w := cmd.OutOrStdout()
				for _, s := range out {
					if s.Error != "" {
						fmt.Fprintf(w, "%s\terror: %s\n", s.AccountKey, s.Error)
						continue
					}
					fmt.Fprintf(w, "%s\t%.0f/100\t%.1f stars\t%s\t%d reviews\n",
						s.AccountKey, s.Score, s.Stars, s.Label, s.ReviewCount)
				}
			}
			for _, s := range out {
				if s.Error != "" {
					return fmt.Errorf("one or more accounts failed to load")
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", o.cfg.Workers, "concurrent loads")
	return cmd
}

// summarize loads keys with at most workers loads in flight. Results keep
// the order of keys.
func (o *options) summarize(ctx context.Context, keys []string, workers int) []summary {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = 1
	}
	out := make([]summary, len(keys))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, key := range keys {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			out[i] = summary{AccountKey: key, Error: err.Error()}
			continue
		}

		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			defer sem.Release(1)

			rc, err := o.load(ctx, key)
			if err != nil {
				log.Warn().Str("account_key", key).Err(err).Msg("load failed")
				out[i] = summary{AccountKey: key, Error: err.Error()}
				return
			}
			out[i] = summary{
				AccountKey:   key,
				Score:        rc.RatingScore(),
				Stars:        rc.RatingStars(),
				Label:        rc.RatingString(),
				ReviewCount:  rc.ReviewCount(),
				Distribution: rc.ReviewStarDistribution(),
				PageURL:      rc.ReviewPageURL(),
			}
			log.Info().Str("account_key", key).Msg("load ok")
		}(i, key)
	}

	wg.Wait()
	return out
}
