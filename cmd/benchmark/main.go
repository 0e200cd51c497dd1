package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/cttfeatures/internal/csvio"
	"github.com/limaJavier/cttfeatures/internal/logger"
	"github.com/limaJavier/cttfeatures/pkg/dataset"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	defaultExecutablePath   = "../../bin/cttfeatures"
	defaultDatasetDirectory = "../../datasets/"
	defaultOutputFile       = "benchmark_results.csv"
)

type ModeType int

const (
	full ModeType = iota
	withoutCentrality
)

type ResultType int

const (
	succeeded ResultType = iota
	failed
)

var (
	modeTypes = map[ModeType]string{
		full:              "full",
		withoutCentrality: "without-centrality",
	}
	resultTypes = map[ResultType]string{
		succeeded: "succeeded",
		failed:    "failed",
	}
	// A node limit of 1 turns betweenness off for every non-trivial instance
	modeConfigs = map[ModeType]string{
		full:              `{}`,
		withoutCentrality: `{"centralityNodeLimit": 1}`,
	}
)

type TestMetadata struct {
	Path      string
	Name      string
	Courses   int
	Rooms     int
	Curricula int
}

func main() {
	executablePath := flag.String("bin", defaultExecutablePath, "Path to the cttfeatures executable")
	datasetDirectory := flag.String("dir", defaultDatasetDirectory, "Directory holding the .ctt instances")
	outFile := flag.String("out", defaultOutputFile, "Path of the CSV file with the results")
	flag.Parse()

	log := logger.Setup("info", "pretty", os.Stderr)

	tests := getTests(*datasetDirectory, log)
	configFiles := writeModeConfigs(log)
	defer lo.ForEach(lo.Values(configFiles), func(file string, _ int) { os.Remove(file) })

	rows := make([]csvio.BenchmarkRow, 0, len(tests)*len(modeTypes))
	for _, test := range tests {
		for _, mode := range []ModeType{full, withoutCentrality} {
			log.Info().Str("instance", test.Name).Str("mode", modeTypes[mode]).Msg("benchmarking")

			duration, maxMemory, cpuPercentage, result := measure(*executablePath, configFiles[mode], test.Path, log)
			rows = append(rows, csvio.BenchmarkRow{
				Mode:          modeTypes[mode],
				Instance:      test.Name,
				Courses:       test.Courses,
				Rooms:         test.Rooms,
				Curricula:     test.Curricula,
				Duration:      duration,
				Memory:        maxMemory,
				CpuPercentage: cpuPercentage,
				Result:        resultTypes[result],
			})
		}
	}

	file, err := os.Create(*outFile)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create CSV file")
	}
	defer file.Close()

	if err := csvio.WriteBenchmark(file, rows); err != nil {
		log.Fatal().Err(err).Msg("cannot write CSV file")
	}
}

func getTests(directory string, log zerolog.Logger) []TestMetadata {
	documents, err := dataset.FromDir(directory)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read dataset directory")
	}
	parser := model.NewParser(model.DefaultConfig(), log)

	return lo.Map(documents, func(document model.Document, _ int) TestMetadata {
		instance := parser.Parse(document.Name, document.Reader)
		return TestMetadata{
			Path:      filepath.Join(directory, document.Name+dataset.Extension),
			Name:      document.Name,
			Courses:   len(instance.Courses),
			Rooms:     len(instance.Rooms),
			Curricula: len(instance.Curricula),
		}
	})
}

func writeModeConfigs(log zerolog.Logger) map[ModeType]string {
	files := make(map[ModeType]string, len(modeConfigs))
	for mode, content := range modeConfigs {
		file, err := os.CreateTemp("./", "benchmark-config-*.json")
		if err != nil {
			log.Fatal().Err(err).Msg("cannot create temporary config file")
		}
		if _, err := file.WriteString(content); err != nil {
			log.Fatal().Err(err).Msg("cannot write temporary config file")
		}
		file.Close()
		files[mode] = file.Name()
	}
	return files
}

func measure(executablePath, configFile, testFile string, log zerolog.Logger) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "-config", configFile, "-out", os.DevNull, "-log-level", "error", "-file", testFile)

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	result = succeeded
	if cmd.ProcessState == nil {
		log.Fatal().Str("stderr", stdErr.String()).Msg("cannot start /usr/bin/time")
	} else if cmd.ProcessState.ExitCode() != 0 {
		result = failed
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatal().Str("substring", substr).Msg("substring could not be found in /usr/bin/time output")
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func parseDurationLine(line string) int64 {
	durationStr := strings.TrimSpace(strings.Split(line, "(h:mm:ss or m:ss):")[1])
	return parseDuration(durationStr)
}

// parseDuration converts "h:mm:ss.hh" or "m:ss.hh" into milliseconds
func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsParts := strings.Split(parts[len(parts)-1], ".")
	seconds := lo.Must(strconv.Atoi(secondsParts[0]))
	hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))

	var minutes, hours int
	switch len(parts) {
	case 3:
		hours = lo.Must(strconv.Atoi(parts[0]))
		minutes = lo.Must(strconv.Atoi(parts[1]))
	case 2:
		minutes = lo.Must(strconv.Atoi(parts[0]))
	default:
		panic(fmt.Sprintf("unexpected duration format: %v", durationStr))
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.TrimSpace(strings.Split(line, ":")[1])
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.TrimSuffix(strings.TrimSpace(strings.Split(line, ":")[1]), "%")
	if percentageStr == "?" {
		return 0
	}
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
