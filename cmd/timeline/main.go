// Command timeline is a headless driver over the timeline engine: it
// loads or builds a project from its positional arguments, commits one
// transaction placing every imported clip back to back, and prints the
// resulting section layout. It exists to exercise Project/Transaction/
// ProxyCache end to end without a GUI shell.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	timeline "github.com/clipforge/timeline"
	"github.com/clipforge/timeline/mediabackend"
)

const (
	defaultSampleRate = 44100
	defaultChannels   = 2
	// defaultClipFrames is the fallback clip length used for an
	// imported file when nothing has actually probed its duration,
	// scaled by TIMELINE_FIXTURE_SCALE.
	defaultClipFrames = defaultSampleRate * 10
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ptermStatusSink adapts a pterm spinner to timeline.StatusSink.
type ptermStatusSink struct {
	spinner *pterm.SpinnerPrinter
}

func (s *ptermStatusSink) SetStatus(description string, queueDepth int) {
	if description == "" {
		return
	}
	s.spinner.UpdateText(fmt.Sprintf("%s (queue depth %d)", description, queueDepth))
}

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())

	if len(os.Args) < 2 {
		pterm.Error.Println("usage: timeline <project.json|clip.wav> [clip.wav ...]")
		os.Exit(2)
	}
	args := os.Args[1:]

	cacheDir := getEnv("TIMELINE_CACHE_DIR", filepath.Join(os.TempDir(), "timeline-proxy-cache"))
	fixtureScale := 1.0
	if raw := os.Getenv("TIMELINE_FIXTURE_SCALE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			fixtureScale = parsed
		}
	}

	metrics := timeline.NewMetrics("timeline")

	spinner, _ := pterm.DefaultSpinner.Start("starting")
	sink := timeline.NewMetricsStatusSink(metrics, &ptermStatusSink{spinner: spinner})

	worker := timeline.NewBackgroundWorker(func(fn func()) { fn() }, sink, log)

	backend := mediabackend.NewPipeBackend(defaultSampleRate, defaultChannels, nil, log)

	project := timeline.NewProject(log)
	project.SetMetrics(metrics)

	proxyCache, err := timeline.NewProxyCache(backend, worker, cacheDir, "preview", func(sourceID string, _ timeline.Producer) {
		log.WithField("source", sourceID).Info("proxy ready")
	}, log)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	defer proxyCache.Close()
	proxyCache.SetMetrics(metrics)
	project.SetProxyCache(proxyCache)

	var documentPath string
	var mediaPaths []string
	for _, arg := range args {
		if timeline.LooksLikeDocumentPath(arg) {
			if documentPath != "" {
				spinner.Fail("only one project document may be given")
				os.Exit(2)
			}
			documentPath = arg
			continue
		}
		mediaPaths = append(mediaPaths, arg)
	}

	if documentPath != "" {
		if _, err := os.Stat(documentPath); err == nil {
			data, err := timeline.Load(documentPath)
			if err != nil {
				spinner.Fail(fmt.Sprintf("load %s: %v", documentPath, err))
				os.Exit(1)
			}
			project.LoadData(data)
			proxyCache.EnsurePresent(data.Sources)
		}
		project.SetPath(documentPath)
	}

	if len(mediaPaths) > 0 {
		txn, err := project.BeginTransaction()
		if err != nil {
			spinner.Fail(err.Error())
			os.Exit(1)
		}

		position := 0
		for _, path := range mediaPaths {
			length := int(float64(defaultClipFrames) * fixtureScale)
			source := timeline.NewFileSource(path, length)
			if err := txn.AddSource(source); err != nil {
				txn.Rollback()
				spinner.Fail(fmt.Sprintf("add source %s: %v", path, err))
				os.Exit(1)
			}
			if err := txn.AddClip(source.ID, position); err != nil {
				txn.Rollback()
				spinner.Fail(fmt.Sprintf("add clip %s: %v", path, err))
				os.Exit(1)
			}
			position += length
		}

		if err := txn.Commit(); err != nil {
			spinner.Fail(fmt.Sprintf("commit: %v", err))
			os.Exit(1)
		}
	}

	spinner.Success("project ready")

	sections, err := project.ComputeSections()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.DefaultSection.Println("timeline")
	fmt.Println(sections.ToAsciiCanvas().String())
}
