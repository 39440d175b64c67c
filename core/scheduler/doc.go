package scheduler

// Package scheduler drives periodic re-planning. The HTTP API triggers runs
// on demand; this package keeps the plan fresh when tasks and free time are
// edited out of band.
