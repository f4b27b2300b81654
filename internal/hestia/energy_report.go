package hestia

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// EnergyReporter writes one line per step with the injected energy and
// the mean temperature of every room.
type EnergyReporter struct {
	file   *os.File
	writer *bufio.Writer
	rooms  []string
	format string
	err    error
}

const roomColumnSuffix = " (K)"

// NewEnergyReporter creates a report file next to filename, never
// overwriting an existing one, and returns the name actually used.
func NewEnergyReporter(filename string, start float64, rooms []string) (*EnergyReporter, string, error) {
	for _, r := range rooms {
		if len(r) == 0 || strings.IndexFunc(r, unicode.IsSpace) >= 0 {
			return nil, "", fmt.Errorf("invalid room column name '%s'", r)
		}
	}
	f, fname, err := CreateUniqueFile(filename)
	if err != nil {
		return nil, "", err
	}
	res := &EnergyReporter{
		file:   f,
		writer: bufio.NewWriter(f),
		rooms:  append([]string(nil), rooms...),
		format: "%.3f %.6f %.6f" + strings.Repeat(" %.4f", len(rooms)) + "\n",
	}

	header := "# Time (s) Energy Cumulative"
	for _, r := range rooms {
		header += " " + r + roomColumnSuffix
	}
	fmt.Fprintf(res.writer, "# Starting time %g\n%s\n", start, header)

	return res, fname, nil
}

func (r *EnergyReporter) ObserveStep(s StepReport) {
	if r.err != nil {
		return
	}
	values := make([]interface{}, 0, 3+len(r.rooms))
	values = append(values, s.Time, s.Energy, s.Cumulative)
	for _, room := range s.Rooms {
		values = append(values, room.Mean)
	}
	if len(values) != 3+len(r.rooms) {
		r.err = fmt.Errorf("report for step %d has %d rooms, expected %d", s.Index, len(s.Rooms), len(r.rooms))
		return
	}
	_, r.err = fmt.Fprintf(r.writer, r.format, values...)
}

// Close flushes the report and returns the first write error, if any.
func (r *EnergyReporter) Close() error {
	err := r.writer.Flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if r.err != nil {
		return r.err
	}
	return err
}

type EnergyReportLine struct {
	Time, Energy, Cumulative float64
	Means                    []float64
}

type EnergyReport struct {
	Start float64
	Rooms []string
	Lines []EnergyReportLine
}

func readStartTime(r *bufio.Reader) (float64, error) {
	l, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	l = strings.TrimPrefix(l, "# Starting time")
	return strconv.ParseFloat(strings.TrimSpace(l), 64)
}

func readRooms(r *bufio.Reader) ([]string, error) {
	l, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	l = strings.TrimSpace(l)
	const prefix = "# Time (s) Energy Cumulative"
	if strings.HasPrefix(l, prefix) == false {
		return nil, fmt.Errorf("invalid header '%s'", l)
	}
	var rooms []string
	for _, f := range strings.Fields(strings.TrimPrefix(l, prefix)) {
		if f == strings.TrimSpace(roomColumnSuffix) {
			continue
		}
		rooms = append(rooms, f)
	}
	return rooms, nil
}

func readEnergyLine(l string, numRooms int) (EnergyReportLine, error) {
	l = strings.TrimSpace(l)
	fields := strings.Fields(l)
	if len(fields) != 3+numRooms {
		return EnergyReportLine{}, fmt.Errorf("invalid line '%s': expected %d fields, got %d", l, 3+numRooms, len(fields))
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return EnergyReportLine{}, fmt.Errorf("invalid line '%s': %w", l, err)
		}
		values[i] = v
	}
	return EnergyReportLine{
		Time:       values[0],
		Energy:     values[1],
		Cumulative: values[2],
		Means:      values[3:],
	}, nil
}

// ReadEnergyReport parses a report written by EnergyReporter.
func ReadEnergyReport(reader io.Reader) (*EnergyReport, error) {
	r := bufio.NewReader(reader)
	start, err := readStartTime(r)
	if err != nil {
		return nil, fmt.Errorf("could not read start time: %w", err)
	}
	rooms, err := readRooms(r)
	if err != nil {
		return nil, err
	}
	res := &EnergyReport{Start: start, Rooms: rooms}
	for {
		l, err := r.ReadString('\n')
		if len(strings.TrimSpace(l)) > 0 {
			line, lerr := readEnergyLine(l, len(rooms))
			if lerr != nil {
				return nil, lerr
			}
			res.Lines = append(res.Lines, line)
		}
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
