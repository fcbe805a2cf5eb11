package locale

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerMu sync.RWMutex
	printers  = map[Locale]*message.Printer{}

	systemMu     sync.Mutex
	systemTag    string
	systemProbed bool
)

// printer returns the cached printer for l's tag and numbering system.
func printer(l Locale) *message.Printer {
	key := Locale{Tag: l.Tag, NumberingSystem: l.NumberingSystem}

	printerMu.RLock()
	p, ok := printers[key]
	printerMu.RUnlock()
	if ok {
		return p
	}

	printerMu.Lock()
	defer printerMu.Unlock()
	if p, ok := printers[key]; ok {
		return p
	}
	p = printerFor(key)
	printers[key] = p
	return p
}

// System returns the host locale from LC_ALL, LC_MESSAGES or LANG, probed
// once. "en_US.UTF-8" becomes "en-US"; unset or "C"/"POSIX" is DefaultTag.
func System() string {
	systemMu.Lock()
	defer systemMu.Unlock()
	if systemProbed {
		return systemTag
	}
	systemTag = probeSystem(os.Getenv)
	systemProbed = true
	return systemTag
}

func probeSystem(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			break
		}
		t, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
		if err != nil {
			continue
		}
		return t.String()
	}
	return DefaultTag
}

// ResetCache forgets cached printers and the system locale probe.
func ResetCache() {
	printerMu.Lock()
	printers = map[Locale]*message.Printer{}
	printerMu.Unlock()

	systemMu.Lock()
	systemProbed = false
	systemTag = ""
	systemMu.Unlock()
}
