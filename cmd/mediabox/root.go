package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuln/mediabox"
	"github.com/nuln/mediabox/internal/logging"
)

type app struct {
	configPath string
	logLevel   string

	fs     *mediabox.Adapter
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mediabox",
		Short:         "Path-based access to an ID-addressed object store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "mediabox.yaml", "configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		a.putCmd(),
		a.getCmd(),
		a.rmCmd(),
		a.existsCmd(),
		a.urlCmd(),
		a.statCmd(),
		driversCmd(),
	)
	return root
}

// open loads the configuration and builds the adapter.
func (a *app) open() error {
	cfg, err := mediabox.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.Must(logging.Config{Level: level, Format: cfg.Log.Format})

	a.fs, err = mediabox.OpenWith(cfg, mediabox.Options{Logger: a.logger})
	if err != nil {
		return err
	}
	a.logger.Debug("opened adapter", zap.String("driver", cfg.Driver), zap.String("folder", cfg.FolderID))
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.fs != nil {
		return a.fs.Close()
	}
	return nil
}

func (a *app) withAdapter(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func (a *app) putCmd() *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "put <path> [file]",
		Short: "Upload a file (from stdin when file is omitted or -)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			var opts []mediabox.WriteOption
			if mimeType != "" {
				opts = append(opts, mediabox.WithMimeType(mimeType))
			}
			if err := a.fs.WriteStream(cmd.Context(), args[0], r, opts...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.fs.PublicURL(cmd.Context(), args[0]))
			return nil
		}),
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "content type instead of the one inferred from the extension")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [file]",
		Short: "Download a file (to stdout when file is omitted or -)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			rc, err := a.fs.ReadStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Create(args[1])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			_, err = io.Copy(w, rc)
			return err
		}),
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				if err := a.fs.Delete(cmd.Context(), p); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Print whether a file exists",
		Args:  cobra.ExactArgs(1),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.fs.FileExists(cmd.Context(), args[0]))
			return nil
		}),
	}
}

func (a *app) urlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <path>",
		Short: "Print the public URL of a file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.fs.PublicURL(cmd.Context(), args[0]))
			return nil
		}),
	}
}

func (a *app) statCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print the identifier and metadata of a file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withAdapter(func(cmd *cobra.Command, args []string) error {
			ctx, p := cmd.Context(), args[0]
			resolve := a.fs.Resolve
			if fresh {
				resolve = a.fs.ResolveFresh
			}
			id, err := resolve(ctx, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:     %s\n", p)
			fmt.Fprintf(out, "id:       %s\n", id)
			fmt.Fprintf(out, "mimeType: %s\n", a.fs.MimeType(p))
			if size, ok := a.fs.FileSize(ctx, p); ok {
				fmt.Fprintf(out, "size:     %d\n", size)
			}
			if mod, ok := a.fs.LastModified(ctx, p); ok {
				fmt.Fprintf(out, "modified: %s\n", mod.UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(out, "url:      %s\n", a.fs.PublicURL(ctx, p))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "skip the identifier cache")
	return cmd
}

func driversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List registered drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(mediabox.Drivers(), "\n"))
			return nil
		},
	}
}
