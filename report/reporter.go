package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Reporter is responsible for presenting diagnostics and other kinds of
// messages to the user of the command-line driver.  The reporter respects the
// set log level and is synchronized: its methods can be safely called from
// multiple goroutines.  The compilation core never uses the reporter directly:
// it hands its diagnostics back to the driver.
type Reporter struct {
	// The mutex used to synchonize different reporting calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The output all messages are written to.
	out io.Writer

	// Indicates whether or not an error has been reported.
	isErr bool

	// The time at which the current phase began.
	phaseStart time.Time

	// The name of the current phase.
	phase string
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global reporter to the given log level. If
// the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = NewReporter(os.Stdout, logLevel)
	}
}

// NewReporter creates a new reporter writing to out.
func NewReporter(out io.Writer, logLevel int) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
		out:      out,
	}
}

// ParseLogLevel converts a log level name to its enumerated value. Unknown
// names default to verbose.
func ParseLogLevel(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// -----------------------------------------------------------------------------

// ReportDiagnostics displays all the diagnostics produced for a source unit.
func ReportDiagnostics(reprPath, src string, diags *Diagnostics) {
	rep.ReportDiagnostics(reprPath, src, diags)
}

// ReportDiagnostics displays all the diagnostics produced for a source unit in
// source order.
func (r *Reporter) ReportDiagnostics(reprPath, src string, diags *Diagnostics) {
	r.m.Lock()
	defer r.m.Unlock()

	for _, d := range diags.Sorted() {
		if d.Severity == SevError {
			r.isErr = true

			if r.logLevel > LogLevelSilent {
				displayDiagnostic(r.out, reprPath, src, d)
			}
		} else if r.logLevel > LogLevelError {
			displayDiagnostic(r.out, reprPath, src, d)
		}
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		displayStdError(rep.out, reprPath, err)
	}
}

// ReportFatal reports a fatal error and exits.  These are errors that should
// cause all compilation to stop immediately: missing files, bad configuration,
// a backend that cannot be found, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		displayFatal(rep.out, fmt.Sprintf(message, args...))
		rep.m.Unlock()
	}

	os.Exit(1)
}

// ReportInternalError reports an internal compiler error and exits.  These are
// always displayed regardless of log level.
func ReportInternalError(err error) {
	rep.m.Lock()
	displayICE(rep.out, err.Error())
	rep.m.Unlock()

	os.Exit(-1)
}

// AnyErrors returns whether or not any errors were reported.
func AnyErrors() bool {
	return rep.isErr
}

// -----------------------------------------------------------------------------

// ReportBeginPhase marks the start of a compilation phase.  In verbose mode,
// the previous phase's duration is displayed.
func ReportBeginPhase(name string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.endPhase()
	rep.phase = name
	rep.phaseStart = time.Now()
}

// ReportEndPhase ends the current compilation phase.
func ReportEndPhase() {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.endPhase()
}

func (r *Reporter) endPhase() {
	if r.phase != "" && r.logLevel == LogLevelVerbose {
		fmt.Fprintf(r.out, "%s %s (%.3fs)\n",
			InfoStyleBG.Sprint(" "+r.phase+" "),
			pterm.FgGray.Sprint("done"),
			time.Since(r.phaseStart).Seconds(),
		)
	}

	r.phase = ""
}

// ReportCompilationFinished displays the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(rep.out, !rep.isErr, outputPath)
	}
}

// DisplayInfoMessage displays an informational message regardless of log
// level (eg. the version banner).
func DisplayInfoMessage(tag, msg string) {
	fmt.Fprintln(rep.out, InfoStyleBG.Sprint(" "+tag+" ")+" "+InfoColorFG.Sprint(msg))
}
