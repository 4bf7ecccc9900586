package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

var (
	leadsPosted       atomic.Int64
	leadsFailed       atomic.Int64
	leadsSkipped      atomic.Int64
	payloadsPreviewed atomic.Int64
	submissionsSeen   atomic.Int64
	unknownForms      atomic.Int64
)

// ObserveOutcome counts a handler outcome by status.
func ObserveOutcome(status string) {
	switch status {
	case "posted":
		leadsPosted.Add(1)
	case "failed":
		leadsFailed.Add(1)
	case "skipped":
		leadsSkipped.Add(1)
	}
}

func ObserveSubmission() {
	submissionsSeen.Add(1)
}

func ObserveUnknownForm() {
	unknownForms.Add(1)
}

func ObservePreview() {
	payloadsPreviewed.Add(1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Posted      int64 `json:"posted"`
	Failed      int64 `json:"failed"`
	Skipped     int64 `json:"skipped"`
	Previewed   int64 `json:"previewed"`
	Submissions int64 `json:"submissions"`
	UnknownForm int64 `json:"unknown_forms"`
}

func Read() Snapshot {
	return Snapshot{
		Posted:      leadsPosted.Load(),
		Failed:      leadsFailed.Load(),
		Skipped:     leadsSkipped.Load(),
		Previewed:   payloadsPreviewed.Load(),
		Submissions: submissionsSeen.Load(),
		UnknownForm: unknownForms.Load(),
	}
}

// Reset zeroes all counters. Used by tests.
func Reset() {
	for _, c := range []*atomic.Int64{&leadsPosted, &leadsFailed, &leadsSkipped, &payloadsPreviewed, &submissionsSeen, &unknownForms} {
		c.Store(0)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeCounters(w, Read())
}

func writeCounters(w io.Writer, s Snapshot) {
	counter := func(name, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n", name, value)
	}

	counter("web2lead_submissions_total", "Submission lifecycle events received.", s.Submissions)
	counter("web2lead_unknown_forms_total", "Submission events for forms without lead handlers.", s.UnknownForm)
	counter("web2lead_leads_posted_total", "Leads accepted by the endpoint.", s.Posted)
	counter("web2lead_leads_failed_total", "Lead posts that failed in transport or got a non-2xx reply.", s.Failed)
	counter("web2lead_leads_skipped_total", "Handler runs skipped for non-insert operations or missing endpoints.", s.Skipped)
	counter("web2lead_payloads_previewed_total", "Payloads built without sending.", s.Previewed)
}
