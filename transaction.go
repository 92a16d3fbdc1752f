package timeline

// Transaction is a short-lived mutation scope over a Project's
// ProjectData. Every mutating call replaces `current`
// wholesale; `commit` publishes it, `rollback`/`reset` discard it.
// Exactly one Transaction may be open per Project at a time.
type Transaction struct {
	project  *Project
	original ProjectData
	current  ProjectData
	done     bool
}

// Current returns the transaction's in-progress snapshot.
func (t *Transaction) Current() ProjectData {
	return t.current
}

// Modify applies fn to the cut with cutID within the in-progress snapshot.
func (t *Transaction) Modify(cutID string, fn func(Cut) Cut) error {
	data, err := t.current.Modify(cutID, fn)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// AddSource registers a new source, for the CLI/import path that
// needs a fresh source id before it can place a clip referencing it.
func (t *Transaction) AddSource(source Source) error {
	data, err := t.current.AddSource(source)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// AddClip places a new cut referencing an existing source.
func (t *Transaction) AddClip(sourceID string, position int) error {
	data, err := t.current.AddClip(sourceID, position)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// AddTextClip creates a Text source and a cut placing it.
func (t *Transaction) AddTextClip(text string, length, position int) error {
	data, err := t.current.AddTextClip(text, length, position)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// RippleDelete removes cutID, closing the resulting gap.
func (t *Transaction) RippleDelete(cutID string) error {
	data, err := t.current.RippleDelete(cutID)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// Split replaces cutID with the two halves Cut.Split(at) produces.
func (t *Transaction) Split(cutID string, at int) error {
	data, err := t.current.Split(cutID, at)
	if err != nil {
		return err
	}
	t.current = data
	return nil
}

// GetCutIDs iterates the in-progress snapshot.
func (t *Transaction) GetCutIDs(predicate func(Cut) bool) []string {
	return t.current.GetCutIDs(predicate)
}

// Reset discards in-progress changes, restoring the snapshot captured
// at transaction open. Used by drag UIs that call reset+modify on
// every motion sample so the visible state is always a clean
// derivation from the pre-drag snapshot.
func (t *Transaction) Reset() {
	t.current = t.original
}

// Rollback resets and releases the transaction slot without
// publishing any change.
func (t *Transaction) Rollback() {
	if t.done {
		return
	}
	t.done = true
	t.current = t.original
	t.project.mu.Lock()
	metrics := t.project.metrics
	t.project.mu.Unlock()
	if metrics != nil {
		metrics.TransactionsRolledBack.Inc()
	}
	t.project.release(t)
}

// Commit finalizes the transaction: clamps every cut's in_out to its
// source's current limit (AdjustCutInOut), publishes the result as
// the project's new ProjectData (firing project_data_changed and
// producer_changed), asks the wired ProxyCache to reconcile, and
// persists to disk if the project has a known path.
func (t *Transaction) Commit() error {
	if t.done {
		return ErrTransactionConflict
	}
	data, err := t.current.AdjustCutInOut()
	if err != nil {
		return err
	}
	t.done = true

	t.project.mu.Lock()
	t.project.setProjectData(data)
	t.project.notifyProducerChanged(data)
	proxyCache := t.project.proxyCache
	path := t.project.path
	metrics := t.project.metrics
	t.project.mu.Unlock()

	if proxyCache != nil {
		proxyCache.EnsurePresent(data.Sources)
	}
	if path != "" {
		if err := Save(data, path); err != nil {
			return err
		}
	}
	if metrics != nil {
		metrics.TransactionsCommitted.Inc()
	}
	t.project.release(t)
	return nil
}
