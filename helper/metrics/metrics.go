package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseLabels turns flat key/value pairs into constant labels.
// It panics on an odd number of arguments.
func ParseLabels(labelsWithValues ...string) prometheus.Labels {
	if len(labelsWithValues)%2 != 0 {
		panic("metrics: odd number of label arguments")
	}

	constLabels := make(prometheus.Labels, len(labelsWithValues)/2)

	for i := 0; i < len(labelsWithValues); i += 2 {
		constLabels[labelsWithValues[i]] = labelsWithValues[i+1]
	}

	return constLabels
}

// Help derives a help string from a snake_case metric name
func Help(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// the helpers below tolerate nil collectors so NilMetrics needs no guards

func CounterInc(counter prometheus.Counter) {
	if counter == nil {
		return
	}

	counter.Inc()
}

func HistogramObserve(histogram prometheus.Histogram, v float64) {
	if histogram == nil {
		return
	}

	histogram.Observe(v)
}

// ObserveSince records the milliseconds elapsed since start
func ObserveSince(histogram prometheus.Histogram, start time.Time) {
	HistogramObserve(histogram, float64(time.Since(start).Milliseconds()))
}
