package input

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

// KeyEvent maps a key press to an event.
func KeyEvent(char rune, key keyboard.Key) (Event, bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		return Quit, true
	case key == keyboard.KeySpace:
		return NextAlgorithm, true
	}
	switch char {
	case 'q', 'Q':
		return Quit, true
	case '+', '=', 'f', 'F', 'b', 'B':
		return SpeedUp, true
	case '-', '_', 's', 'S', 'a', 'A':
		return SpeedDown, true
	case 'n', 'N', 'u', 'U', ' ':
		return NextAlgorithm, true
	}
	return 0, false
}

// ListenKeyboard reads raw key presses until ctx is done or the keyboard
// fails, offering mapped events without blocking. It returns the error from
// opening the keyboard; read errors end the listener silently.
func ListenKeyboard(ctx context.Context, events chan<- Event) error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	closeOnce := &sync.Once{}
	closeKeyboard := func() {
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}

	go func() {
		<-ctx.Done()
		closeKeyboard()
	}()

	go func() {
		defer closeKeyboard()
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			if ctx.Err() != nil {
				return
			}
			e, ok := KeyEvent(char, key)
			if !ok {
				continue
			}
			if e == Quit {
				// quit must not be lost to a full queue
				select {
				case events <- e:
				case <-ctx.Done():
				}
				return
			}
			Offer(events, e)
		}
	}()
	return nil
}
