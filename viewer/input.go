package viewer

import (
	"bufio"
	"context"
	"errors"
	"strconv"
	"time"
)

type inputEvent struct {
	inputString string
	err         error
}

var errInputGone = errors.New("Input ended")

const (
	sOUTOFSEQUENCE = iota
	sINESCAPE
	sDIRECTIVE
)

// escapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it is reported as the escape key itself.
const escapeTimeout = 100 * time.Millisecond

var codeMap = map[rune]string{
	rune(9):   "TAB",
	rune(13):  "ENTER",
	rune(127): "BACKSPACE",
}

// keyDecoder turns terminal input runes into key names.
type keyDecoder struct {
	state int
}

// feed consumes one rune and returns the key it completes, if any.
func (k *keyDecoder) feed(runeRead rune) (string, bool) {
	switch k.state {
	case sINESCAPE:
		if runeRead == '[' {
			k.state = sDIRECTIVE
			return "", false
		} else if runeRead == 27 {
			return "ESCAPE", true
		}
		k.state = sOUTOFSEQUENCE
		return string(runeRead), true

	case sDIRECTIVE:
		k.state = sOUTOFSEQUENCE
		switch runeRead {
		case 'A':
			return "UP", true
		case 'B':
			return "DOWN", true
		case 'C':
			return "RIGHT", true
		case 'D':
			return "LEFT", true
		}
		return strconv.QuoteRune(runeRead), true
	}

	if runeRead == 27 {
		k.state = sINESCAPE
		return "", false
	}
	if name, ok := codeMap[runeRead]; ok {
		return name, true
	}
	return string(runeRead), true
}

// timeout is called when no rune followed an ESC in time.
func (k *keyDecoder) timeout() (string, bool) {
	if k.state == sINESCAPE {
		k.state = sOUTOFSEQUENCE
		return "ESCAPE", true
	}
	return "", false
}

// handleKeys decodes keys from reader onto stringChannel until input ends
// or ctx is done. It never blocks on a send once ctx is done.
func handleKeys(ctx context.Context, reader *bufio.Reader, stringChannel chan<- inputEvent, cancel context.CancelFunc) {
	send := func(ev inputEvent) bool {
		select {
		case stringChannel <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	runes := make(chan rune, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(runes)
		for {
			runeRead, _, err := reader.ReadRune()
			if err != nil {
				return
			}
			select {
			case runes <- runeRead:
			case <-done:
				return
			}
		}
	}()

	var decoder keyDecoder
	for {
		var escape <-chan time.Time
		if decoder.state == sINESCAPE {
			escape = time.After(escapeTimeout)
		}

		select {
		case runeRead, ok := <-runes:
			if !ok || runeRead == 3 {
				send(inputEvent{"", errInputGone})
				cancel()
				return
			}
			if key, ok := decoder.feed(runeRead); ok && !send(inputEvent{key, nil}) {
				return
			}
		case <-escape:
			if key, ok := decoder.timeout(); ok && !send(inputEvent{key, nil}) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
