package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mogaika/smd2fbx/config"
	"github.com/mogaika/smd2fbx/logger"
	"github.com/mogaika/smd2fbx/smd"
	"github.com/mogaika/smd2fbx/web"
)

var (
	configPath string
	logLevel   string
	logFile    string
	encoding   string
	format     string
	normals    string
	dump       bool
	addr       string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smd2fbx [file]",
	Short: "Convert the triangles block of an SMD model to FBX",
	Long: `smd2fbx reads the triangles block of a text SMD model, welds corners that
share a position, averages their normals and writes a single textured mesh.
The output is written next to the input with the extension replaced.

An input named like a subcommand ("serve", "encodings") must be given with a
path, for example ./serve.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: setup,
	RunE:              runConvert,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over http",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}
		return web.StartServer(cfg)
	},
}

var encodingsCmd = &cobra.Command{
	Use:   "encodings",
	Short: "List input encodings accepted by --encoding",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range config.ListEncodings() {
			fmt.Println(name)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to yaml config")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "Also log to this file, rotated")
	pf.StringVar(&encoding, "encoding", "", "Charmap of the input, see 'encodings'")
	pf.StringVarP(&format, "format", "f", "fbx", "Output format: fbx, gltf, glb or obj")
	pf.StringVar(&normals, "normals", "corner", "Normals to export per corner: corner or welded")

	rootCmd.Flags().BoolVar(&dump, "dump", false, "Dump the welded mesh to the debug log")
	serveCmd.Flags().StringVarP(&addr, "addr", "i", ":8000", "Address of server")

	rootCmd.AddCommand(serveCmd, encodingsCmd)
}

// setup loads the config file and applies flags that were set explicitly.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.LogFile = logFile
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding = encoding
	}
	if flags.Changed("format") {
		cfg.Export.Format = format
	}
	if flags.Changed("normals") {
		cfg.Export.Normals = normals
	}
	if flags.Changed("dump") {
		cfg.Export.Dump = dump
		if dump && !flags.Changed("log-level") {
			cfg.Logging.Level = "debug"
		}
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	logger.Sugar.Debugf("[smd2fbx] config %q: format=%s normals=%s encoding=%q",
		configPath, cfg.Export.Format, cfg.Export.Normals, cfg.Input.Encoding)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	// anything but a single input path is ignored without output
	if len(args) != 1 {
		return nil
	}

	popts, err := cfg.ParseOptions()
	if err != nil {
		return err
	}
	eopts, err := cfg.ExportOptions()
	if err != nil {
		return err
	}

	_, err = smd.ConvertFile(args[0], popts, eopts)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if cfg == nil {
			// failed before the logger was set up
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			logger.Error("[smd2fbx] failed", zap.Error(err))
			logger.Sync()
		}
		os.Exit(1)
	}
	logger.Sync()
}
