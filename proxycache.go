package timeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"blainsmith.com/go/seahash"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/clipforge/timeline/mediabackend/format"
)

// loadingPlaceholder stands in for a File source's producer while its
// proxy is being transcoded. It accepts arbitrary cut(in,out) queries;
// its declared length grows to match the largest out seen so editing
// stays responsive before the real producer is ready.
type loadingPlaceholder struct {
	length int64
}

func (p *loadingPlaceholder) Playtime() int {
	return int(atomic.LoadInt64(&p.length))
}

// growTo bumps the placeholder's declared length up to at least frames.
func (p *loadingPlaceholder) growTo(frames int) {
	for {
		current := atomic.LoadInt64(&p.length)
		if int64(frames) <= current {
			return
		}
		if atomic.CompareAndSwapInt64(&p.length, current, int64(frames)) {
			return
		}
	}
}

// ProxyCache maps source id to a backend Producer, transcoding
// File sources to a downscaled proxy in the background and serving a
// loadingPlaceholder until the transcode lands.
type ProxyCache struct {
	backend  MediaBackend
	worker   Worker
	cacheDir string
	profile  string
	log      *logrus.Entry

	mu          sync.Mutex
	entries     map[string]Producer
	placeholder map[string]*loadingPlaceholder

	onReady func(sourceID string, producer Producer)

	watcher *fsnotify.Watcher
	metrics *Metrics
}

// SetMetrics wires the counters transcode/cache-hit bump.
func (c *ProxyCache) SetMetrics(metrics *Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = metrics
}

// NewProxyCache creates a cache rooted at cacheDir, which is created
// if absent. worker executes downscale-transcode jobs; onReady is
// invoked on the main thread (via the worker's result delivery) once
// a proxy producer replaces the placeholder, so the caller can fire
// the producer_changed event.
func NewProxyCache(backend MediaBackend, worker Worker, cacheDir, profile string, onReady func(string, Producer), log *logrus.Entry) (*ProxyCache, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create proxy cache dir %s: %w", cacheDir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create proxy cache watcher: %w", err)
	}
	if err := watcher.Add(cacheDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch proxy cache dir %s: %w", cacheDir, err)
	}
	cache := &ProxyCache{
		backend:     backend,
		worker:      worker,
		cacheDir:    cacheDir,
		profile:     profile,
		log:         log,
		entries:     map[string]Producer{},
		placeholder: map[string]*loadingPlaceholder{},
		onReady:     onReady,
		watcher:     watcher,
	}
	go cache.watchCacheDir()
	return cache, nil
}

// Close stops the cache's directory watch.
func (c *ProxyCache) Close() error {
	return c.watcher.Close()
}

// watchCacheDir logs proxy files that appear from another process
// racing on the same cache directory.
func (c *ProxyCache) watchCacheDir() {
	for event := range c.watcher.Events {
		if event.Op&fsnotify.Create != 0 {
			c.log.WithField("path", event.Name).Debug("proxy cache file appeared")
		}
	}
}

// EnsurePresent reconciles the cache against the live set of source
// ids: entries for ids no longer present are dropped; ids absent from
// the cache get a placeholder and a background load job.
func (c *ProxyCache) EnsurePresent(sources Sources) {
	c.mu.Lock()
	live := map[string]struct{}{}
	for _, id := range sources.IDs() {
		live[id] = struct{}{}
	}
	for id := range c.entries {
		if _, ok := live[id]; !ok {
			delete(c.entries, id)
		}
	}
	var toLoad []Source
	for _, id := range sources.IDs() {
		source, _ := sources.Get(id)
		if source.File == nil {
			continue
		}
		if _, ok := c.entries[id]; ok {
			continue
		}
		if _, ok := c.placeholder[id]; ok {
			continue
		}
		c.placeholder[id] = &loadingPlaceholder{}
		toLoad = append(toLoad, source)
	}
	c.mu.Unlock()

	for _, source := range toLoad {
		c.enqueueLoad(source)
	}
}

// Resolve returns the current producer for sourceID — the real proxy
// producer if ready, otherwise the loading placeholder, growing the
// placeholder's declared length to accommodate [in,out) along the way.
func (c *ProxyCache) Resolve(source Source, inOut Region) Producer {
	if source.Text != nil {
		producer, err := c.backend.MakeTextProducer(source.Text.Text)
		if err != nil {
			c.log.WithError(err).Warn("text producer synthesis failed")
			return &loadingPlaceholder{length: int64(inOut.End)}
		}
		return producer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if producer, ok := c.entries[source.ID]; ok {
		return producer
	}
	placeholder, ok := c.placeholder[source.ID]
	if !ok {
		placeholder = &loadingPlaceholder{}
		c.placeholder[source.ID] = placeholder
	}
	placeholder.growTo(inOut.End)
	return placeholder
}

func (c *ProxyCache) enqueueLoad(source Source) {
	c.worker.Enqueue(Job{
		Description: "transcoding proxy for " + source.Label(),
		WorkFn: func(progress func(string)) (interface{}, error) {
			return c.transcode(source, progress)
		},
		ResultFn: func(result interface{}, err error) {
			if err != nil {
				c.log.WithError(err).WithField("source", source.ID).Warn("proxy transcode failed; keeping placeholder")
				return
			}
			producer := result.(Producer)
			c.mu.Lock()
			c.entries[source.ID] = producer
			delete(c.placeholder, source.ID)
			c.mu.Unlock()
			if c.onReady != nil {
				c.onReady(source.ID, producer)
			}
		},
	})
}

func (c *ProxyCache) transcode(source Source, progress func(string)) (Producer, error) {
	checksum, err := checksumFile(source.File.Path)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", source.File.Path, err)
	}
	ext := filepath.Ext(source.File.Path)
	if f, ok := format.FormatByPath(source.File.Path); ok {
		ext = f.DefaultExtension()
	}
	cached := filepath.Join(c.cacheDir, fmt.Sprintf("%x%s", checksum, ext))
	if _, err := os.Stat(cached); err == nil {
		progress("cache hit")
		if c.metrics != nil {
			c.metrics.ProxyCacheHits.Inc()
		}
		return c.backend.MakeFileProducer(cached, c.profile)
	}
	progress("transcoding")
	if c.metrics != nil {
		c.metrics.ProxyTranscodes.Inc()
	}
	tmp := cached + ".tmp"
	producer, err := c.backend.MakeFileProducer(source.File.Path, c.profile)
	if err != nil {
		return nil, err
	}
	ready, err := c.backend.RenderToFileAndCapture(context.Background(), producer, tmp, func(float64) {})
	if err != nil {
		return nil, fmt.Errorf("transcode %s: %w", source.File.Path, err)
	}
	if err := os.Rename(tmp, cached); err != nil {
		return nil, fmt.Errorf("rename proxy %s: %w", tmp, err)
	}
	return ready, nil
}

func checksumFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := seahash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
