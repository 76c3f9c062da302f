package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tpreviews/internal/adapters/observability"
	"tpreviews/internal/adapters/trustpilot"
	"tpreviews/internal/app"
	"tpreviews/internal/shared"
)

type options struct {
	cfg        shared.Config
	baseURL    string
	timeout    time.Duration
	maxPayload int64
	format     string
}

// NewRootCmd builds the tpreviews command tree. Defaults come from the
// environment (see shared.Load); flags override them.
func NewRootCmd() *cobra.Command {
	o := &options{cfg: shared.Load()}

	root := &cobra.Command{
		Use:           "tpreviews",
		Short:         "Inspect Trustpilot review feeds",
		Long:          `Download a Trustpilot tpelements feed and query its rating and reviews.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = observability.NewLogger(o.cfg.AppEnv, o.cfg.LogLevel).Output(cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.baseURL, "base-url", o.cfg.BaseURL, "feed host")
	pf.DurationVar(&o.timeout, "timeout", o.cfg.FetchTimeout, "retrieval timeout")
	pf.Int64Var(&o.maxPayload, "max-payload", o.cfg.MaxPayload, "maximum compressed and decompressed size in bytes")
	pf.StringVarP(&o.format, "format", "o", "text", "output format: text, json or yaml")

	root.AddCommand(newSummaryCmd(o), newReviewsCmd(o))
	return root
}

func (o *options) source() (*trustpilot.Client, error) {
	return trustpilot.New(o.baseURL,
		trustpilot.WithTimeout(o.timeout),
		trustpilot.WithMaxPayload(o.maxPayload),
	)
}

func (o *options) load(ctx context.Context, key string) (*app.ReviewClient, error) {
	src, err := o.source()
	if err != nil {
		return nil, err
	}
	return app.NewReviewClient(ctx, src, key)
}

// emit writes v in the selected structured format. It reports false for
// "text" so the caller can print its own layout.
func (o *options) emit(w io.Writer, v any) (bool, error) {
	switch o.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown format %q", o.format)
	}
}
