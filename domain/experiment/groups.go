package experiment

// Group is every Observation sharing one sample name. Exactly one of them is
// drawn per bootstrap round.
type Group struct {
	Name         string
	Observations []Observation
}

// Len returns the number of runs recorded for the sample
func (g Group) Len() int { return len(g.Observations) }

// Groups is an ordered collection of sample groups. Order is the first-seen
// order of sample names in the ingested batch.
type Groups struct {
	groups   []Group
	runCount int
}

// GroupBySample partitions a flat batch of observations by sample name
func GroupBySample(observations []Observation) Groups {
	index := make(map[string]int)
	var groups []Group
	maxRun := -1

	for _, obs := range observations {
		i, ok := index[obs.sampleName]
		if !ok {
			i = len(groups)
			index[obs.sampleName] = i
			groups = append(groups, Group{Name: obs.sampleName})
		}
		groups[i].Observations = append(groups[i].Observations, obs)
		if obs.runIndex > maxRun {
			maxRun = obs.runIndex
		}
	}

	return Groups{groups: groups, runCount: maxRun + 1}
}

// Len returns the number of sample groups
func (g Groups) Len() int { return len(g.groups) }

// At returns the i-th group in first-seen order
func (g Groups) At(i int) Group { return g.groups[i] }

// Each calls fn for every group in order
func (g Groups) Each(fn func(Group)) {
	for _, group := range g.groups {
		fn(group)
	}
}

// RunCount is the largest run index seen plus one; zero for an empty batch.
func (g Groups) RunCount() int { return g.runCount }

// Observations returns the total number of observations across all groups
func (g Groups) Observations() int {
	n := 0
	for _, group := range g.groups {
		n += len(group.Observations)
	}
	return n
}

// ShortGroups lists groups holding fewer observations than the run count.
// Dropped anomalies are the usual cause.
func (g Groups) ShortGroups() []string {
	var names []string
	for _, group := range g.groups {
		if len(group.Observations) < g.runCount {
			names = append(names, group.Name)
		}
	}
	return names
}

// MaxErrorLocations returns the largest error-location count of any single
// observation.
func (g Groups) MaxErrorLocations() int {
	n := 0
	for _, group := range g.groups {
		for _, obs := range group.Observations {
			if l := obs.ErrorLocations(); l > n {
				n = l
			}
		}
	}
	return n
}

// RecoveryTimeRange returns the smallest and largest recovery time observed
func (g Groups) RecoveryTimeRange() (lo, hi float64) {
	first := true
	for _, group := range g.groups {
		for _, obs := range group.Observations {
			if first || obs.recoveryTime < lo {
				lo = obs.recoveryTime
			}
			if first || obs.recoveryTime > hi {
				hi = obs.recoveryTime
			}
			first = false
		}
	}
	return lo, hi
}
