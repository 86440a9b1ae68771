package sim

import (
	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

// StateReport samples how many hosts are in each movement state and
// averages the samples per report interval.
type StateReport struct {
	sampleInterval int64
	reportInterval int64
	lastSample     int64
	lastReport     int64
	sampled        bool

	samples []map[movement.State]int
	rows    []*model.StateReportCSVRow
}

func NewStateReport(sampleInterval, reportInterval int64) *StateReport {
	return &StateReport{sampleInterval: sampleInterval, reportInterval: reportInterval}
}

// Observe takes a sample when a sample interval has passed and closes the
// report interval when that one has.
func (r *StateReport) Observe(now int64, hosts []*Host) {
	if r.sampled && now-r.lastSample < r.sampleInterval {
		return
	}
	r.sampled = true
	r.lastSample = now
	r.samples = append(r.samples, countStates(hosts))
	if now-r.lastReport >= r.reportInterval {
		r.emit(now)
	}
}

// Flush emits the pending samples as a final row.
func (r *StateReport) Flush() {
	if len(r.samples) > 0 {
		r.emit(r.lastSample)
	}
}

func (r *StateReport) emit(now int64) {
	row := &model.StateReportCSVRow{Time: now, Samples: len(r.samples)}
	var totals [4]int
	for _, s := range r.samples {
		for state, n := range s {
			totals[state] += n
		}
	}
	n := float64(len(r.samples))
	row.Ready = float64(totals[movement.Ready]) / n
	row.Class = float64(totals[movement.Class]) / n
	row.NonLecture = float64(totals[movement.NonLecture]) / n
	row.Done = float64(totals[movement.Done]) / n
	r.rows = append(r.rows, row)
	r.samples = nil
	r.lastReport = now
}

func (r *StateReport) Rows() []*model.StateReportCSVRow {
	return r.rows
}
