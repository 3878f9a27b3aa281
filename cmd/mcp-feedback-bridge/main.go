// mcp-feedback-bridge exports the bridge entry points as a C shared library
// for the Python MCP server:
//
//	go build -tags desktop,production -buildmode=c-shared -o libmcp_feedback_desktop.so ./cmd/mcp-feedback-bridge
//
// Strings returned to the caller are allocated with malloc and must be
// released with free_string.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"encoding/json"
	"unsafe"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/bridge"
)

func main() {}

func toCString(v any) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		applog.WithComponent("bridge").Error("encode result", "err", err)
		return C.CString("{}")
	}
	return C.CString(string(data))
}

//export context_factory
func context_factory() *C.char {
	return toCString(bridge.ContextFactory())
}

//export builder_factory
func builder_factory() *C.char {
	return toCString(bridge.BuilderFactory().Build())
}

//export run_app
func run_app(webURL *C.char) C.int {
	return C.int(bridge.RunApp(C.GoString(webURL)))
}

// run_descriptor runs a descriptor previously returned by builder_factory,
// possibly edited by the caller. Fields the caller leaves out keep the
// builder defaults.
//
//export run_descriptor
func run_descriptor(descriptorJSON *C.char) C.int {
	d := bridge.BuilderFactory().Build()
	if err := json.Unmarshal([]byte(C.GoString(descriptorJSON)), &d); err != nil {
		applog.WithComponent("bridge").Error("decode descriptor", "err", err)
		return C.int(bridge.ExitFailed)
	}
	return C.int(bridge.RunDescriptor(d))
}

//export free_string
func free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}
