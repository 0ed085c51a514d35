package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrFileNotFound = errors.New("midi file not found")
	ErrCorruptFile  = errors.New("midi file corrupt or unreadable")
	ErrEmptyScore   = errors.New("midi file contains no notes")
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrFileNotFound, filepath)
		}
		return nil, errors.Wrapf(ErrCorruptFile, "reading %s: %v", filepath, err)
	}
	return ParseMidi(bytes.NewReader(dat))
}

func ParseMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrap(ErrCorruptFile, fmt.Sprint(r))
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptFile, err.Error())
	}
	return res, nil
}
