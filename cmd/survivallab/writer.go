package main

import (
	"survivallab/internal/config"
	"survivallab/internal/lab"
)

// newWriters sets up the round writer chain based on flags. It returns the
// writer and a cleanup function to close any resources.
func newWriters(cfg *config.Config, jsonOut bool, logFile string) (lab.RoundWriter, func(), error) {
	cleanup := func() {}

	var writer lab.RoundWriter
	if jsonOut {
		writer = lab.NewJSONStdoutWriter()
	} else {
		writer = lab.NewColorStdoutWriter(cfg)
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := lab.NewFileWriter(logFile, logFile+".leaderboard")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	return lab.NewMultiWriter(writer, fw), cleanup, nil
}
