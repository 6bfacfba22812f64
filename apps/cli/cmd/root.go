package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcohen01/rusttpx/packages/client"
	"github.com/mcohen01/rusttpx/packages/config"
	"github.com/mcohen01/rusttpx/packages/render"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	flagMethod      string
	flagHeaders     []string
	flagBody        string
	flagContentType string
	flagTimeout     int
	flagFollow      bool
	flagNoFollow    bool
	flagShowHeaders bool
	flagShowBody    bool
)

var rootCmd = &cobra.Command{
	Use:   "rusttpx <URL>",
	Short: "A next-generation HTTP client",
	Long: `rusttpx builds and executes HTTP requests from the command line:
redirect following, session cookies, timeouts, and syntax-aware
colorized output for JSON responses.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRequest,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagMethod, "method", "m", "GET", "HTTP method to use")
	rootCmd.Flags().StringArrayVarP(&flagHeaders, "headers", "H", nil, `request headers (format: "Name: Value")`)
	rootCmd.Flags().StringVarP(&flagBody, "body", "b", "", "request body")
	rootCmd.Flags().StringVar(&flagContentType, "content-type", "application/json", "content type for the request body")
	rootCmd.Flags().IntVarP(&flagTimeout, "timeout", "t", 30, "timeout in seconds")
	rootCmd.Flags().BoolVarP(&flagFollow, "follow-redirects", "r", true, "follow redirects")
	rootCmd.Flags().BoolVar(&flagNoFollow, "no-follow-redirects", false, "do not follow redirects")
	rootCmd.Flags().BoolVar(&flagShowHeaders, "show-headers", false, "show response headers")
	rootCmd.Flags().BoolVar(&flagShowBody, "show-body", true, "show response body")

	rootCmd.AddCommand(versionCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c := buildClient(cmd, cfg)

	method := strings.ToUpper(flagMethod)
	builder := c.NewRequest(method, args[0])

	for _, h := range flagHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return &client.Error{
				Kind: client.KindInvalidRequest,
				Err:  fmt.Errorf("invalid header %q (expected \"Name: Value\")", h),
			}
		}
		builder.Header(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if flagBody != "" {
		builder.Body([]byte(flagBody), flagContentType)
	}

	resp, err := builder.Send(context.Background())
	if err != nil {
		// Redirect failures still carry the last response received;
		// show it before reporting the error.
		if last := client.LastResponse(err); last != nil {
			renderResponse(cmd, cfg, last)
		}
		return err
	}

	renderResponse(cmd, cfg, resp)
	return nil
}

func buildClient(cmd *cobra.Command, cfg *config.Config) *client.Client {
	opts := []client.ClientOption{
		client.WithTimeout(time.Duration(flagTimeout) * time.Second),
	}

	if !cmd.Flags().Changed("timeout") && cfg.Timeout > 0 {
		opts[0] = client.WithTimeout(time.Duration(cfg.Timeout) * time.Millisecond)
	}

	follow := flagFollow && cfg.GetFollowRedirects()
	if cmd.Flags().Changed("follow-redirects") {
		follow = flagFollow
	}
	if flagNoFollow {
		follow = false
	}
	opts = append(opts, client.WithFollowRedirects(follow))

	if cfg.MaxRedirects > 0 {
		opts = append(opts, client.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Headers != nil {
		opts = append(opts, client.WithDefaultHeaders(cfg.Headers))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	} else {
		opts = append(opts, client.WithUserAgent("rusttpx/"+version))
	}

	return client.NewClient(opts...)
}

func renderResponse(cmd *cobra.Command, cfg *config.Config, resp *client.Response) {
	mode := render.ColorAuto
	if cfg.GetNoColor() {
		mode = render.ColorNever
	}

	r := render.NewRenderer(render.WithWriter(cmd.OutOrStdout()))
	r.Render(resp, render.Options{
		ShowHeaders: flagShowHeaders,
		ShowBody:    flagShowBody,
		Color:       mode,
	})
}

// exitCode maps client error kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case client.IsKind(err, client.KindInvalidRequest):
		return ExitInvalidRequest
	case client.IsKind(err, client.KindTimeout):
		return ExitTimeout
	case client.IsKind(err, client.KindTransport):
		return ExitNetworkError
	case client.IsKind(err, client.KindTooManyRedirects),
		client.IsKind(err, client.KindMissingLocation):
		return ExitRedirectError
	}
	return ExitError
}
