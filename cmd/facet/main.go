// facet is an interactive 3D model viewer built around face picking.
//
// Drag to rotate, scroll or pinch to zoom, click or tap a face to select it.
// The same session runs in a terminal (half-block pixels) or in a desktop
// window.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/logger"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/session"
)

var version = "dev"

var (
	configPath   string
	commandsPath string
	fpsFlag      int
	hudFlag      bool
	logLevelFlag string
)

const controlsHelp = `Controls:
  Drag        - Rotate model
  Scroll      - Zoom in/out
  Pinch       - Zoom (touch)
  Click/Tap   - Select face
  R           - Reset view
  +/-         - Zoom
  /           - Toggle debug panel
  Q/Esc       - Quit`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "facet",
		Short: "Interactive 3D model viewer with face picking",
		Long: "facet - Interactive 3D Model Viewer\n\n" +
			"Models are a built-in name (" + strings.Join(models.BuiltinNames(), ", ") +
			"), a text model file, or a glTF/GLB file.\n\n" + controlsHelp,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./facet.yaml or the user config dir)")
	root.PersistentFlags().StringVar(&commandsPath, "commands", "", "JSON command stream to apply at startup (file, or - for stdin)")
	root.PersistentFlags().IntVar(&fpsFlag, "fps", 0, "Target FPS (overrides config)")
	root.PersistentFlags().BoolVar(&hudFlag, "hud", false, "Show the debug panel at startup (overrides config)")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(viewCmd(), windowCmd(), pickCmd(), infoCmd(), convertCmd())
	return root
}

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [model]",
		Short: "View a model in the terminal",
		Long:  "View a model in the terminal with half-block pixels.\n\n" + controlsHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// The alternate screen owns stdout, so the terminal viewer only
			// logs to a file.
			log := logger.New(cfg.Logging.Level, fileConfig(cfg), false)
			defer log.Sync() //nolint:errcheck

			s, err := newSession(cmd.Context(), cfg, log, args)
			if err != nil {
				return err
			}
			return runTerminal(cmd.Context(), cfg, s, log)
		},
	}
}

func windowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "window [model]",
		Short: "View a model in a desktop window",
		Long:  "View a model in a desktop window with mouse, wheel and touch input.\n\n" + controlsHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := logger.InitWithFileConfig(cfg.Logging.Level, fileConfig(cfg), true); err != nil {
				return err
			}
			defer logger.Sync()

			s, err := newSession(cmd.Context(), cfg, logger.Log, args)
			if err != nil {
				return err
			}
			return runWindow(cfg, s, logger.Log)
		},
	}
}

func pickCmd() *cobra.Command {
	var (
		x, y          float64
		width, height int
		rotX, rotY    float64
		scale         float64
	)
	cmd := &cobra.Command{
		Use:   "pick <model>",
		Short: "Print the face under a canvas pixel",
		Long: "Pick the front-most face under (x, y) on a canvas of the given size and print its index, " +
			"or -1 when the ray misses every face.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s := session.New(cfg, zap.NewNop())
			if err := s.Open(args[0]); err != nil {
				return err
			}
			s.Resize(width, height)
			if cmd.Flags().Changed("rot-x") || cmd.Flags().Changed("rot-y") {
				s.State.SetRotation(rotX, rotY)
			}
			s.State.SetScale(scale)

			fmt.Fprintln(cmd.OutOrStdout(), s.Input.Pick(x, y))
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "Canvas X in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "Canvas Y in pixels")
	cmd.Flags().IntVar(&width, "width", 800, "Canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "Canvas height in pixels")
	cmd.Flags().Float64Var(&rotX, "rot-x", 0, "Rotation about X in radians (default view when unset)")
	cmd.Flags().Float64Var(&rotY, "rot-y", 0, "Rotation about Y in radians (default view when unset)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Zoom factor")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Display model information",
		Long:  "Display the face count, vertex count and bounding box of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			size := m.Size()
			center := m.Center()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model:      %s\n", m.Name)
			fmt.Fprintf(out, "Faces:      %d\n", m.TriangleCount())
			fmt.Fprintf(out, "Vertices:   %d declared, %d expanded\n", len(m.Raw), m.VertexCount())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Bounds:     (%.3f, %.3f, %.3f) to (%.3f, %.3f, %.3f)\n",
				m.BoundsMin.X, m.BoundsMin.Y, m.BoundsMin.Z, m.BoundsMax.X, m.BoundsMax.Y, m.BoundsMax.Z)
			fmt.Fprintf(out, "Size:       %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
			fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <model> <out.txt>",
		Short: "Write a model in the text format",
		Long:  "Convert a built-in, text or glTF/GLB model to the text model format. Use - to write to stdout.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			if args[1] == "-" {
				return m.WriteText(cmd.OutOrStdout())
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[1], err)
			}
			if err := m.WriteText(f); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", args[1], err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d faces)\n", filepath.Base(args[1]), m.TriangleCount())
			return nil
		},
	}
}

// newSession builds the viewer session, shows the requested model (the cube
// when none is given), and applies any startup command stream.
func newSession(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) (*session.Session, error) {
	s := session.New(cfg, log)

	ref := "cube"
	if len(args) > 0 {
		ref = args[0]
	}
	if err := s.Open(ref); err != nil {
		return nil, err
	}

	if commandsPath == "" {
		return s, nil
	}
	in := os.Stdin
	if commandsPath != "-" {
		f, err := os.Open(commandsPath)
		if err != nil {
			return nil, fmt.Errorf("open commands: %w", err)
		}
		defer f.Close()
		in = f
	}
	if err := s.ReadCommands(ctx, in, nil); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return s, nil
}

// loadConfig loads the config file and applies any flags the user set on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.View.FPS = fpsFlag
	}
	if flags.Changed("hud") {
		cfg.View.ShowHUD = hudFlag
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func fileConfig(cfg *config.Config) logger.FileConfig {
	fc := logger.DefaultFileConfig(cfg.Logging.File)
	if cfg.Logging.MaxSizeMB > 0 {
		fc.MaxSizeMB = cfg.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups > 0 {
		fc.MaxBackups = cfg.Logging.MaxBackups
	}
	if cfg.Logging.MaxAgeDays > 0 {
		fc.MaxAgeDays = cfg.Logging.MaxAgeDays
	}
	fc.Compress = cfg.Logging.Compress
	return fc
}
