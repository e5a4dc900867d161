// Package pipeline models a declarative build matrix and its deploy
// gate: independent test jobs fanned out over OS, runtime version and
// package manager, with artifact publication restricted to one
// designated job on tagged commits.
package pipeline

import (
	"fmt"
	"sort"
)

// Job is one concrete build configuration.
type Job struct {
	OS             string `yaml:"os"`
	Version        string `yaml:"version"`
	PackageManager string `yaml:"package_manager"`
}

// Key returns the job's canonical identifier.
func (j Job) Key() string {
	return fmt.Sprintf("%s/%s/%s", j.OS, j.Version, j.PackageManager)
}

// Matrix declares the axes of the build fan-out plus explicit
// adjustments.
type Matrix struct {
	OS              []string `yaml:"os"`
	Versions        []string `yaml:"versions"`
	PackageManagers []string `yaml:"package_managers"`

	// Include appends jobs outside the cartesian product.
	Include []Job `yaml:"include,omitempty"`

	// Exclude removes jobs from the cartesian product.
	Exclude []Job `yaml:"exclude,omitempty"`
}

// Validate checks that every axis is populated and free of duplicates.
func (m *Matrix) Validate() error {
	for _, axis := range []struct {
		name   string
		values []string
	}{
		{"os", m.OS},
		{"versions", m.Versions},
		{"package_managers", m.PackageManagers},
	} {
		if len(axis.values) == 0 {
			return fmt.Errorf("matrix axis %q cannot be empty", axis.name)
		}
		seen := make(map[string]struct{}, len(axis.values))
		for _, v := range axis.values {
			if v == "" {
				return fmt.Errorf("matrix axis %q contains an empty value", axis.name)
			}
			if _, dup := seen[v]; dup {
				return fmt.Errorf("matrix axis %q contains duplicate value %q", axis.name, v)
			}
			seen[v] = struct{}{}
		}
	}
	return nil
}

// Expand returns the concrete job list: the cartesian product of the
// axes, minus excludes, plus includes, in deterministic order.
func (m *Matrix) Expand() []Job {
	excluded := make(map[string]struct{}, len(m.Exclude))
	for _, j := range m.Exclude {
		excluded[j.Key()] = struct{}{}
	}

	var jobs []Job
	for _, os := range m.OS {
		for _, version := range m.Versions {
			for _, pm := range m.PackageManagers {
				j := Job{OS: os, Version: version, PackageManager: pm}
				if _, skip := excluded[j.Key()]; skip {
					continue
				}
				jobs = append(jobs, j)
			}
		}
	}

	include := append([]Job(nil), m.Include...)
	sort.Slice(include, func(a, b int) bool { return include[a].Key() < include[b].Key() })
	jobs = append(jobs, include...)

	return jobs
}

// Contains reports whether the expansion produces the given job.
func (m *Matrix) Contains(job Job) bool {
	key := job.Key()
	for _, j := range m.Expand() {
		if j.Key() == key {
			return true
		}
	}
	return false
}
