package server

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/pprof"
)

// idleGoroutines describes the goroutines that run when no players are connected.
var idleGoroutines = []string{
	"the main procedure",
	"the http server",
	"waiting for interrupt/termination signals to stop the server gracefully",
	"running the sockets of the lobby",
	"running the rooms of the lobby",
	"relaying messages from the sockets of the lobby to its rooms",
	"relaying messages from the rooms of the lobby to its sockets",
	"writing this goroutine profile",
}

// handleMonitor writes the memory, goroutine, and stack trace information of the server.
func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	writeMemoryStats(w, &m)
	writeGoroutineExpectations(w)
	fmt.Fprintln(w, "--- Goroutine Stack Traces ---")
	pprof.Lookup("goroutine").WriteTo(w, 1)
}

func writeMemoryStats(w io.Writer, m *runtime.MemStats) {
	stats := []struct {
		name  string
		value uint64
	}{
		{"heap bytes allocated", m.Alloc},
		{"total heap bytes allocated", m.TotalAlloc},
		{"bytes obtained from the os", m.Sys},
		{"live objects", m.Mallocs - m.Frees},
		{"completed garbage collections", uint64(m.NumGC)},
		{"running goroutines", uint64(runtime.NumGoroutine())},
	}
	fmt.Fprintln(w, "--- Memory Stats ---")
	for _, st := range stats {
		fmt.Fprintf(w, "%-30s %d\n", st.name, st.value)
	}
	fmt.Fprintln(w)
}

// writeGoroutineExpectations lists the goroutines that should be running to help find leaks.
func writeGoroutineExpectations(w io.Writer) {
	fmt.Fprintln(w, "--- Goroutine Expectations ---")
	fmt.Fprintf(w, "%v goroutines are expected on an idling server:\n", len(idleGoroutines))
	for _, g := range idleGoroutines {
		fmt.Fprintln(w, "* "+g)
	}
	fmt.Fprintln(w, "Each connected player adds two goroutines: one reads and one writes websocket messages.")
	fmt.Fprintln(w, "Each room adds a goroutine.")
	fmt.Fprintln(w, "Rooms hosted by peers run in the processes of their hosts, so the server only lists their addresses.")
	fmt.Fprintln(w)
}
