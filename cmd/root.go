package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dankeboy36/ardunno-cli-gen/errext"
	"github.com/dankeboy36/ardunno-cli-gen/lib/consts"
)

var nameColor = color.New(color.FgCyan, color.Bold) //nolint:gochecknoglobals

// This is to keep all fields needed for the main/root command
type rootCommand struct {
	globalState *globalState

	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{globalState: gs}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:   consts.AppName,
		Short: "Generate client bindings for the arduino-cli gRPC API",
		Long: fmt.Sprintf("\n%s resolves the arduino-cli proto files from a local folder,\n"+
			"a released version, or a git ref, and runs protoc against them.",
			nameColor.Sprint(consts.AppName)),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.args[1:])
	rootCmd.SetOut(gs.stdOut)
	rootCmd.SetErr(gs.stdErr)
	rootCmd.SetIn(gs.stdIn)

	subCommands := []func(*globalState) *cobra.Command{
		getCmdGenerate, getCmdVersion,
	}
	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	gs := c.globalState
	if !cmd.Flags().Changed("log-output") {
		if envLogOutput, ok := gs.envVars[envPrefix+"LOG_OUTPUT"]; ok {
			gs.flags.logOutput = envLogOutput
		}
	}
	if err := c.setupLoggers(); err != nil {
		return err
	}

	if gs.flags.noColor {
		gs.stdOut.rawOut = colorable.NewNonColorable(gs.stdOut.rawOut)
		gs.stdErr.rawOut = colorable.NewNonColorable(gs.stdErr.rawOut)
	}
	stdlog.SetOutput(gs.logger.Writer())
	gs.logger.Debugf("%s version: v%s", consts.AppName, consts.FullVersion())
	return nil
}

func (c *rootCommand) execute() {
	gs := c.globalState
	ctx, cancel := context.WithCancel(gs.ctx)
	defer cancel()
	gs.ctx = ctx

	sigCh := make(chan os.Signal, 1)
	gs.signalNotify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer gs.signalStop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			gs.logger.WithField("signal", sig).Debug("Received signal, aborting")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := c.cmd.Execute()
	if err == nil {
		return
	}

	exitCode := -1
	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		exitCode = int(ecerr.ExitCode())
	}

	errText, fields := errext.Format(err)
	gs.logger.WithFields(fields).Error(errText)
	gs.osExit(exitCode)
}

// Execute adds all child commands to the root command, sets the flags
// appropriately and runs it. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gs := newGlobalState(ctx)
	newRootCommand(gs).execute()
}

func rootCmdPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.BoolVarP(&gs.flags.verbose, "verbose", "v", gs.flags.verbose, "enable debug logging")
	flags.BoolVarP(&gs.flags.quiet, "quiet", "q", gs.flags.quiet, "only log warnings and errors")
	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	flags.StringVar(&gs.flags.logOutput, "log-output", gs.flags.logOutput,
		"change the output for logs, possible values are stderr,stdout,none")
	flags.StringVar(&gs.flags.logFormat, "log-format", gs.flags.logFormat, "log output format")
	return flags
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

func (c *rootCommand) setupLoggers() error {
	gs := c.globalState

	if gs.flags.verbose {
		gs.logger.SetLevel(logrus.DebugLevel)
	} else if gs.flags.quiet {
		gs.logger.SetLevel(logrus.WarnLevel)
	}

	switch gs.flags.logOutput {
	case "stderr":
		gs.logger.SetOutput(gs.stdErr)
	case "stdout":
		gs.logger.SetOutput(gs.stdOut)
	case "none":
		gs.logger.SetOutput(io.Discard)
	default:
		return fmt.Errorf("unsupported log output `%s`", gs.flags.logOutput)
	}

	switch gs.flags.logFormat {
	case "raw":
		gs.logger.SetFormatter(&RawFormatter{})
		gs.logger.Debug("Logger format: RAW")
	case "json":
		gs.logger.SetFormatter(&logrus.JSONFormatter{})
		gs.logger.Debug("Logger format: JSON")
	case "", "text":
		gs.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   gs.stdErr.isTTY && !gs.flags.noColor,
			DisableColors: gs.flags.noColor || !gs.stdErr.isTTY,
		})
		gs.logger.Debug("Logger format: TEXT")
	default:
		return fmt.Errorf("unsupported log format `%s`", gs.flags.logFormat)
	}
	return nil
}
