package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/dankeboy36/ardunno-cli-gen/lib/fsext"
)

const envPrefix = "ARDUNNO_CLI_GEN_"

type globalFlags struct {
	logOutput string
	logFormat string
	quiet     bool
	noColor   bool
	verbose   bool
}

func getDefaultFlags() globalFlags {
	return globalFlags{logOutput: "stderr"}
}

func consolidateFlags(defaultFlags globalFlags, env map[string]string) globalFlags {
	result := defaultFlags

	if val, ok := env[envPrefix+"LOG_OUTPUT"]; ok {
		result.logOutput = val
	}
	if val, ok := env[envPrefix+"LOG_FORMAT"]; ok {
		result.logFormat = val
	}
	if env[envPrefix+"NO_COLOR"] != "" {
		result.noColor = true
	}
	// Support https://no-color.org/, even an empty value should disable
	// the color output.
	if _, ok := env["NO_COLOR"]; ok {
		result.noColor = true
	}
	return result
}

// globalState contains the globalFlags and accessors for most of the global
// process-external state like CLI arguments, env vars, standard streams and
// the filesystem. It allows the tests to lock almost all of these down.
type globalState struct {
	ctx context.Context

	fs    fsext.Fs
	getwd func() (string, error)

	args    []string
	envVars map[string]string

	defaultFlags, flags globalFlags

	stdOut, stdErr *consoleWriter
	stdIn          io.Reader

	osExit       func(int)
	signalNotify func(chan<- os.Signal, ...os.Signal)
	signalStop   func(chan<- os.Signal)

	logger         *logrus.Logger
	fallbackLogger logrus.FieldLogger
}

// newGlobalState returns a globalState with the real dependencies of the
// process: the OS filesystem, its environment, stdout and stderr, etc. The
// returned logger writes to stderr and can be changed later, after the
// flags and environment are fully consolidated.
func newGlobalState(ctx context.Context) *globalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	outMutex := &sync.Mutex{}
	stdOut := &consoleWriter{colorable.NewColorableStdout(), stdoutTTY, outMutex}
	stdErr := &consoleWriter{colorable.NewColorableStderr(), stderrTTY, outMutex}

	envVars := buildEnvMap(os.Environ())

	logger := &logrus.Logger{
		Out: stdErr,
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY,
			DisableColors: !stderrTTY,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	defaultFlags := getDefaultFlags()

	return &globalState{
		ctx:          ctx,
		fs:           fsext.NewOsFs(),
		getwd:        os.Getwd,
		args:         append(make([]string, 0, len(os.Args)), os.Args...),
		envVars:      envVars,
		defaultFlags: defaultFlags,
		flags:        consolidateFlags(defaultFlags, envVars),
		stdOut:       stdOut,
		stdErr:       stdErr,
		stdIn:        os.Stdin,
		osExit:       os.Exit,
		signalNotify: signal.Notify,
		signalStop:   signal.Stop,
		logger:       logger,
		fallbackLogger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}

// consoleWriter syncs writes with a mutex so that concurrent log lines and
// command output don't get interleaved mid-line.
type consoleWriter struct {
	rawOut io.Writer
	isTTY  bool
	mutex  *sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.rawOut.Write(p)
}
