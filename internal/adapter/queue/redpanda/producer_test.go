package redpanda

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no seed brokers")
}

func TestNewConsumer_Validation(t *testing.T) {
	_, err := NewConsumer(nil, "group", &stubJobs{}, &stubAssessments{}, &stubAI{}, 4)
	assert.Error(t, err)

	_, err = NewConsumerWithTopic([]string{"localhost:9092"}, "", &stubJobs{}, &stubAssessments{}, &stubAI{}, 4, TopicAnalysis)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "group ID")
}
