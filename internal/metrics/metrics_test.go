package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordFeatureQuery(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordFeatureQuery("sire", "resolve", 0.25)
		RecordFeatureQueryError("sire", "resolve")
	})
}

func TestRecordCacheEvents(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCacheHit()
		RecordCacheMiss()
		RecordPedigreeTree()
	})
}

func TestHandler(t *testing.T) {
	InitRegistry()
	assert.NotNil(t, Handler())
}
