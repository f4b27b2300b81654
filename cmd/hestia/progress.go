package main

import (
	"time"

	"github.com/formicidae-tracker/hestia/internal/hestia"
	"github.com/sirupsen/logrus"
)

// progressLogger logs a summary every few steps and on the last one.
type progressLogger struct {
	logger *logrus.Entry
	first  int
	total  int
	every  int
	start  time.Time
}

func newProgressLogger(logger *logrus.Entry, first, total, every int) *progressLogger {
	if every < 1 {
		every = 1
	}
	return &progressLogger{
		logger: logger,
		first:  first,
		total:  total,
		every:  every,
		start:  time.Now(),
	}
}

func (p *progressLogger) ObserveStep(r hestia.StepReport) {
	done := r.Index + 1 - p.first
	if done%p.every != 0 && done != p.total {
		return
	}
	fields := logrus.Fields{
		"step":    done,
		"total":   p.total,
		"time":    r.Time,
		"energy":  r.Cumulative,
		"elapsed": time.Since(p.start).Round(time.Millisecond).String(),
	}
	heating := 0
	for _, room := range r.Rooms {
		if room.Heating == true {
			heating++
		}
	}
	fields["heating"] = heating
	p.logger.WithFields(fields).Info("progress")

	for _, room := range r.Rooms {
		p.logger.WithFields(logrus.Fields{
			"room":    room.Name,
			"mean":    hestia.Temperature(room.Mean).String(),
			"target":  room.Target.String(),
			"heating": room.Heating,
		}).Debug("room state")
	}
}
