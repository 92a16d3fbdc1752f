package timeline

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ProjectDataListener is called synchronously, on the thread that
// mutated state, every time a Project's ProjectData changes.
type ProjectDataListener func(ProjectData)

// ProducerListener is called on transaction commit. A proxy becoming
// ready does not call it; ProxyCache reports that through its own
// onReady callback.
type ProducerListener func(ProjectData)

// Project is the mutable, process-wide holder of the current
// ProjectData, plus listener fan-out for data and producer changes.
// Only the main/editor thread is expected to call into it.
type Project struct {
	log *logrus.Entry

	mu   sync.Mutex
	data ProjectData
	path string
	txn  *Transaction

	dataListeners     []ProjectDataListener
	producerListeners []ProducerListener

	proxyCache *ProxyCache
	metrics    *Metrics
}

// SetProxyCache wires the cache a commit asks to reconcile. Pass nil to run without proxy reconciliation, as in tests.
func (p *Project) SetProxyCache(cache *ProxyCache) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxyCache = cache
}

// SetMetrics wires the counters commit, rollback and ComputeSections bump.
func (p *Project) SetMetrics(metrics *Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = metrics
}

// NewProject returns a Project over an empty ProjectData.
func NewProject(log *logrus.Entry) *Project {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Project{log: log, data: NewProjectData()}
}

// LoadData replaces the current snapshot outright and fans out
// project_data_changed, the way opening a document on disk seeds a
// fresh Project before any transaction runs against it. It does not
// go through AdjustCutInOut or touch the proxy cache; callers that
// want those should run a no-op transaction instead.
func (p *Project) LoadData(data ProjectData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setProjectData(data)
}

// Data returns the current snapshot.
func (p *Project) Data() ProjectData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// Path returns the on-disk path this project was loaded from or last
// saved to, or "" if none is known yet.
func (p *Project) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// SetPath records the path commit should persist to.
func (p *Project) SetPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
}

// OnProjectDataChanged registers a listener for every set_project_data.
func (p *Project) OnProjectDataChanged(fn ProjectDataListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dataListeners = append(p.dataListeners, fn)
}

// OnProducerChanged registers a listener for transaction commits.
func (p *Project) OnProducerChanged(fn ProducerListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.producerListeners = append(p.producerListeners, fn)
}

// setProjectData replaces data and synchronously fans out to every
// project_data_changed listener.
func (p *Project) setProjectData(data ProjectData) {
	p.data = data
	listeners := append([]ProjectDataListener(nil), p.dataListeners...)
	p.log.WithField("cuts", data.Cuts.Len()).Debug("project data changed")
	for _, fn := range listeners {
		fn(data)
	}
}

// notifyProducerChanged fans out to every producer_changed listener.
func (p *Project) notifyProducerChanged(data ProjectData) {
	listeners := append([]ProducerListener(nil), p.producerListeners...)
	for _, fn := range listeners {
		fn(data)
	}
}

// SourceResolver turns a Source and the window a cut plays from it
// into a backend Producer. ForPreview and ForExport are the two named
// resolution paths a compiler walks a Sections tree with: preview
// trades fidelity for responsiveness through the ProxyCache, export
// always decodes the original file.
type SourceResolver func(source Source, inOut Region) Producer

// ForPreview resolves through the wired ProxyCache, falling back to a
// lazily-constructed placeholder if commit produced an id has no
// cache yet. Returns an error only if no ProxyCache is wired.
func (p *Project) ForPreview() (SourceResolver, error) {
	p.mu.Lock()
	cache := p.proxyCache
	p.mu.Unlock()
	if cache == nil {
		return nil, fmt.Errorf("project has no proxy cache wired")
	}
	return cache.Resolve, nil
}

// ForExport resolves every File source at full quality directly
// through backend, bypassing the proxy cache entirely. Text sources
// still synthesize through backend the same way preview does, since
// there is no lossy "proxy" form of a text clip.
func (p *Project) ForExport(backend MediaBackend) SourceResolver {
	return func(source Source, inOut Region) Producer {
		if source.Text != nil {
			producer, err := backend.MakeTextProducer(source.Text.Text)
			if err != nil {
				p.log.WithError(err).Warn("text producer synthesis failed during export")
				return nil
			}
			return producer
		}
		producer, err := backend.MakeFileProducer(source.File.Path, "")
		if err != nil {
			p.log.WithError(err).WithField("path", source.File.Path).Warn("export producer failed")
			return nil
		}
		return producer
	}
}

// ComputeSections splits the current snapshot into sections, bumping
// SectionsComputed if metrics are wired. This is the entry point a
// preview or render path calls to lay out the current timeline.
func (p *Project) ComputeSections() (Sections, error) {
	p.mu.Lock()
	data := p.data
	metrics := p.metrics
	p.mu.Unlock()

	sections, err := data.SplitIntoSections()
	if err != nil {
		return Sections{}, err
	}
	if metrics != nil {
		metrics.SectionsComputed.Inc()
	}
	return sections, nil
}

// BeginTransaction opens a new Transaction over the current snapshot.
// Fails with ErrTransactionConflict if one is already open.
func (p *Project) BeginTransaction() (*Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.txn != nil {
		return nil, ErrTransactionConflict
	}
	txn := &Transaction{
		project:  p,
		original: p.data,
		current:  p.data,
	}
	p.txn = txn
	return txn, nil
}

// release clears the in-progress transaction slot; called by
// Transaction.commit/rollback.
func (p *Project) release(txn *Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.txn == txn {
		p.txn = nil
	}
}
