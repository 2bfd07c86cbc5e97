package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cdutil/gamma-tool/pkg/calibration"
	"github.com/cdutil/gamma-tool/pkg/colord"
	"github.com/cdutil/gamma-tool/pkg/lifecycle"
)

var (
	logLevel = "info"

	gammaArg    = "1.0"
	temperature = calibration.DefaultTemperature
	removeMode  = false
	infoMode    = false
	deviceIndex = lifecycle.AllDevices
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, colord.ErrServiceUnavailable) {
		fmt.Fprintln(os.Stderr, color.RedString("\nError: cannot reach the color management service"))
		fmt.Fprintln(os.Stderr, "Is colord running on the system bus?")
	}
}

func main() {
	cmd := NewCommand()

	// Bare invocation is a request for help, but an unsuccessful one.
	if len(os.Args) < 2 {
		_ = cmd.Usage()
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamma-tool",
		Short: "gamma-tool adjusts display gamma and color temperature through colord profiles",
		Long: `gamma-tool adjusts per-display gamma and color temperature by generating an
ICC profile with a matching video card gamma table and registering it with
the color management service.

Without -r or -i, a new calibration profile is applied to the selected
displays. When both -r and -i are given, -i wins.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&gammaArg, "gamma", "g", gammaArg, "target gamma as R:G:B or a single value for all channels, 1.0 is neutral")
	flags.IntVarP(&temperature, "temperature", "t", temperature, "target color temperature in Kelvin, 6500 is neutral")
	flags.BoolVarP(&removeMode, "remove", "r", false, "remove the existing profile created by this tool")
	flags.BoolVarP(&infoMode, "info", "i", false, "display info about the current profile")
	flags.IntVarP(&deviceIndex, "device", "d", deviceIndex, "target a specific display index (e.g. 0), all displays if omitted")

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")

	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func run() error {
	gamma, err := calibration.ParseGamma(gammaArg)
	if err != nil {
		return err
	}
	req := calibration.Request{Gamma: gamma, Temperature: temperature}
	if err := req.Validate(); err != nil {
		return err
	}

	// Info is checked before remove: giving both -i and -r means info.
	mode := lifecycle.ModeApply
	switch {
	case infoMode:
		mode = lifecycle.ModeInfo
	case removeMode:
		mode = lifecycle.ModeRemove
	}

	client, err := colord.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Warnf("failed to close service connection: %v", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"mode":        mode,
		"gamma":       gammaArg,
		"temperature": temperature,
	}).Debug("starting run")

	return lifecycle.New(client).Run(mode, req, deviceIndex)
}
