package automod

// Sweep garbage-collects all windowed state. It runs on a fixed period from
// the bot scheduler, independent of event traffic, and is idempotent: a
// second run with no intervening events changes nothing.
//
// Each map is swept under its own lock; no single lock is held across the
// whole sweep, so detectors keep running while other maps are swept.
func (e *Engine) Sweep() {
	now := e.now()

	e.messagesMu.Lock()
	for key, w := range e.messages {
		w.prune(now, sweepRetention)
		if len(w.entries) == 0 {
			delete(e.messages, key)
		}
	}
	e.messagesMu.Unlock()

	e.countsMu.Lock()
	for key, st := range e.counts {
		if now.Sub(st.lastViolation) > sweepRetention {
			delete(e.counts, key)
		}
	}
	e.countsMu.Unlock()

	e.raidsMu.Lock()
	for guildID, st := range e.raids {
		cut := 0
		for cut < len(st.joins) && now.Sub(st.joins[cut].ts) > sweepRetention {
			cut++
		}
		if cut > 0 {
			st.joins = append(st.joins[:0], st.joins[cut:]...)
		}
		if len(st.joins) == 0 && now.Sub(st.lastAlert) > sweepRetention {
			delete(e.raids, guildID)
		}
	}
	e.raidsMu.Unlock()

	e.nukesMu.Lock()
	for key, window := range e.nukes {
		cut := 0
		for cut < len(window) && now.Sub(window[cut]) > nukeWindow {
			cut++
		}
		if cut == len(window) {
			delete(e.nukes, key)
			continue
		}
		if cut > 0 {
			e.nukes[key] = window[cut:]
		}
	}
	e.nukesMu.Unlock()
}
