package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/trimsilence/pkg/boundary"
	"github.com/xaionaro-go/trimsilence/pkg/ffmpeg"
	"github.com/xaionaro-go/trimsilence/pkg/trim"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
	"github.com/xaionaro-go/trimsilence/pkg/vad/implementations/libfvad"
	"github.com/xaionaro-go/trimsilence/pkg/vad/implementations/silero"
)

// ModelPathEnvVar is consulted when --model is not given.
const ModelPathEnvVar = "TRIMSILENCE_VAD_MODEL"

func syntaxExit(message string) {
	fmt.Fprintf(os.Stderr, "syntax error: %s\n", message)
	pflag.Usage()
	os.Exit(2)
}

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	trimStartFlag := pflag.BoolP("trim-start", "s", false, "trim only the silence at the beginning")
	trimEndFlag := pflag.BoolP("trim-end", "e", false, "trim only the silence at the end")
	outputFlag := pflag.String("output", "", "output file path (default: overwrite the input file)")
	replaceFlag := pflag.BoolP("replace", "i", false, "overwrite the input file even if --output is given")
	engineFlag := pflag.String("engine", "silero", "VAD engine to use: silero or libfvad")
	modelFlag := pflag.String("model", "", "path to the Silero VAD model (default: $"+ModelPathEnvVar+")")
	threadsFlag := pflag.IntP("threads", "t", 0, "VAD engine thread count (0 means the engine default)")
	thresholdFlag := pflag.Float32("threshold", silero.DefaultThreshold, "speech probability threshold")
	chunkedFlag := pflag.Bool("chunked", false, "always scan the file in fixed-size chunks")
	wholeBufferFlag := pflag.Bool("whole-buffer", false, "always run the VAD over the whole file at once")
	pflag.Parse()
	if pflag.NArg() != 1 {
		syntaxExit("expected one argument (audio file path)")
	}
	if *chunkedFlag && *wholeBufferFlag {
		syntaxExit("--chunked and --whole-buffer are mutually exclusive")
	}
	inputPath := pflag.Arg(0)

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	interruptCh := make(chan os.Signal, 1)
	signal.Notify(interruptCh, os.Interrupt)
	observability.Go(ctx, func() {
		select {
		case <-interruptCh:
			logger.Warnf(ctx, "interrupted")
			cancelFunc()
		case <-ctx.Done():
		}
	})

	var engine vad.Engine
	switch *engineFlag {
	case "silero":
		modelPath := *modelFlag
		if modelPath == "" {
			modelPath = os.Getenv(ModelPathEnvVar)
		}
		if modelPath == "" {
			syntaxExit("no VAD model: pass --model or set $" + ModelPathEnvVar)
		}
		var err error
		engine, err = silero.New(ctx, silero.Config{
			ModelPath: modelPath,
			Threads:   *threadsFlag,
			Threshold: *thresholdFlag,
		})
		if err != nil {
			logger.Fatal(ctx, err)
		}
	case "libfvad":
		var err error
		engine, err = libfvad.New(libfvad.DefaultSensitivityMode)
		if err != nil {
			logger.Fatal(ctx, err)
		}
	default:
		syntaxExit(fmt.Sprintf("unknown VAD engine '%s'", *engineFlag))
	}
	defer engine.Close()

	transcoder, err := ffmpeg.New(ctx)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	boundaryOpts := boundary.Options{
		boundary.OptionTrimStart(*trimStartFlag),
		boundary.OptionTrimEnd(*trimEndFlag),
	}
	switch {
	case *chunkedFlag:
		boundaryOpts = append(boundaryOpts, boundary.OptionMode(boundary.ModeChunked))
	case *wholeBufferFlag:
		boundaryOpts = append(boundaryOpts, boundary.OptionMode(boundary.ModeWholeBuffer))
	}

	outputPath := *outputFlag
	if *replaceFlag {
		outputPath = ""
	}

	trimmer := trim.New(engine, transcoder, trim.OptionBoundaryOptions(boundaryOpts))
	report, err := trimmer.Trim(ctx, trim.Request{
		InputPath:  inputPath,
		OutputPath: outputPath,
	})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	switch report.Outcome {
	case trim.OutcomeNoSpeech:
		fmt.Fprintln(os.Stderr, "No speech detected. Not creating an output file.")
	case trim.OutcomeNothingToTrim:
		fmt.Fprintln(os.Stderr, "No silence to trim. Leaving the file as it is.")
	case trim.OutcomeTrimmed:
		if report.EndSeconds < report.TotalSeconds {
			fmt.Fprintf(os.Stderr, "Detected speech from %s to %s.\n",
				trim.FormatTimestamp(report.StartSeconds),
				trim.FormatTimestamp(report.EndSeconds),
			)
		} else {
			fmt.Fprintf(os.Stderr, "Detected speech from %s.\n", trim.FormatTimestamp(report.StartSeconds))
		}
		if outputPath == "" {
			fmt.Fprintf(os.Stderr, "Original file %s has been overwritten.\n", inputPath)
		} else {
			fmt.Fprintf(os.Stderr, "Successfully created %s.\n", outputPath)
		}
	}
}
