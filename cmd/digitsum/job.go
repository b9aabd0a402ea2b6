package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/panyam/mapreduce"
)

// Job is the YAML job file accepted by --job. Every field is optional; unset
// fields keep the value from the environment.
//
//	data: "124 5 4 354325"
//	workers: 2
//	timeout: 500ms
//	policy: collect-all
type Job struct {
	Data    string `yaml:"data"`
	Workers int    `yaml:"workers"`
	Timeout string `yaml:"timeout"`
	Policy  string `yaml:"policy"`
}

// runSettings is the merged executor configuration of one invocation.
type runSettings struct {
	workers int
	timeout time.Duration
	policy  mapreduce.Policy
}

// LoadJob reads and validates a job file.
func LoadJob(path string) (*Job, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	return ParseJob(content)
}

// ParseJob decodes a job from YAML and validates it.
func ParseJob(content []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(content, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	if job.Workers < 0 {
		return nil, fmt.Errorf("invalid job: workers must not be negative, got %d", job.Workers)
	}
	if job.Timeout != "" {
		if _, err := time.ParseDuration(job.Timeout); err != nil {
			return nil, fmt.Errorf("invalid job: timeout: %w", err)
		}
	}
	if _, err := mapreduce.ParsePolicy(job.Policy); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	return &job, nil
}

// apply overrides s with the fields set in the job.
func (j *Job) apply(s *runSettings) {
	if j.Workers > 0 {
		s.workers = j.Workers
	}
	if j.Timeout != "" {
		s.timeout, _ = time.ParseDuration(j.Timeout)
	}
	if j.Policy != "" {
		s.policy, _ = mapreduce.ParsePolicy(j.Policy)
	}
}
