package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tpreviews/internal/app"
	"tpreviews/internal/domain"
)

func newReviewsCmd(o *options) *cobra.Command {
	var (
		f      app.Filter
		first  bool
		random bool
	)
	cmd := &cobra.Command{
		Use:   "reviews [account-key]",
		Short: "List reviews of an account",
		Long: `List the reviews of an account, optionally filtered by minimum score and locale.
Note that with --locale any (the default) the minimum score is ignored unless --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if first && random {
				return fmt.Errorf("--first and --random are mutually exclusive")
			}
			key := o.cfg.AccountKey
			if len(args) == 1 {
				key = args[0]
			}
			if key == "" {
				return fmt.Errorf("no account key given")
			}

			rc, err := o.load(cmd.Context(), key)
			if err != nil {
				return err
			}

			var items []domain.ReviewRecord
			switch {
			case first:
				if r, ok := rc.FirstReview(f); ok {
					items = []domain.ReviewRecord{r}
				}
			case random:
				if r, ok := rc.RandomReview(f); ok {
					items = []domain.ReviewRecord{r}
				}
			default:
				items, _ = rc.AllReviews(f)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no review matches")
				// structured formats still get a document: []
				items = []domain.ReviewRecord{}
			}

			ok, err := o.emit(cmd.OutOrStdout(), items)
			if err != nil || ok {
				return err
			}
			printReviews(cmd.OutOrStdout(), items)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&f.MinimumRating, "min", 0, "minimum review score (0-100)")
	fl.StringVar(&f.Locale, "locale", app.AnyLocale, `reviewer locale, e.g. en-GB, or "any"`)
	fl.BoolVar(&f.Strict, "strict", false, "apply --min even when --locale is any")
	fl.BoolVar(&first, "first", false, "only the first matching review")
	fl.BoolVar(&random, "random", false, "one matching review picked at random")
	return cmd
}

func printReviews(w io.Writer, items []domain.ReviewRecord) {
	for i, r := range items {
		verified := ""
		if r.IsVerified {
			verified = " (verified)"
		}
		fmt.Fprintf(w, "%d. %s [%.0f, %s]\n", i+1, r.Title, r.Score, r.ScoreValue)
		fmt.Fprintf(w, "   %s%s, %s, %s\n", r.Name, verified, r.Language, r.CreatedAt().Format(time.DateOnly))
		if r.Content != "" {
			fmt.Fprintf(w, "   %s\n", r.Content)
		}
		fmt.Fprintf(w, "   %s\n", r.URL)
	}
}
