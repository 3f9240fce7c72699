package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// runtimeDecls holds the external declarations of the C runtime ABI a
// lowered module links against (spec.md §6). Every field is a
// *ir.Func with no body — the module only ever calls them.
type runtimeDecls struct {
	alloc       *ir.Func // void* __tocin_alloc(i64 size)
	free        *ir.Func // void __tocin_free(void*)
	goLaunch    *ir.Func // void __tocin_go_launch(void (*fn)(void*), void* arg)
	chanSend    *ir.Func // void __tocin_chan_send(void* ch, void* val)
	chanRecv    *ir.Func // void* __tocin_chan_recv(void* ch)
	chanSelect  *ir.Func // i32 __tocin_chan_select(i32 n_cases, CaseDesc* cases)
	intToStr    *ir.Func // i8* int_to_string(i64)
	floatToStr  *ir.Func // i8* float_to_string(double)
	boolToStr   *ir.Func // i8* bool_to_string(i1) -- extension matching the int/float pair
	stringConcat *ir.Func // i8* string_concat(i8*, i8*)

	// promiseCreate/promiseGetFuture/futureGet are spec.md §6's exact
	// async ABI triple: an async function body fulfills a Promise, hands
	// callers its paired Future, and `await` resolves a Future to its
	// value.
	promiseCreate    *ir.Func // void* Promise_create()
	promiseGetFuture *ir.Func // void* Promise_getFuture(void* promise)
	futureGet        *ir.Func // void* Future_get(void* future)
}

var voidPtr = types.NewPointer(types.I8)

func declareRuntime(m *ir.Module) *runtimeDecls {
	caseDesc := types.NewStruct(voidPtr, voidPtr, types.I1) // {channel, value_slot, is_send}
	fnPtr := types.NewPointer(types.NewFunc(types.Void, voidPtr))

	return &runtimeDecls{
		alloc:        m.NewFunc("__tocin_alloc", voidPtr, ir.NewParam("size", types.I64)),
		free:         m.NewFunc("__tocin_free", types.Void, ir.NewParam("p", voidPtr)),
		goLaunch:     m.NewFunc("__tocin_go_launch", types.Void, ir.NewParam("fn", fnPtr), ir.NewParam("arg", voidPtr)),
		chanSend:     m.NewFunc("__tocin_chan_send", types.Void, ir.NewParam("ch", voidPtr), ir.NewParam("val", voidPtr)),
		chanRecv:     m.NewFunc("__tocin_chan_recv", voidPtr, ir.NewParam("ch", voidPtr)),
		chanSelect:   m.NewFunc("__tocin_chan_select", types.I32, ir.NewParam("n_cases", types.I32), ir.NewParam("cases", types.NewPointer(caseDesc))),
		intToStr:     m.NewFunc("int_to_string", voidPtr, ir.NewParam("v", types.I64)),
		floatToStr:   m.NewFunc("float_to_string", voidPtr, ir.NewParam("v", types.Double)),
		boolToStr:    m.NewFunc("bool_to_string", voidPtr, ir.NewParam("v", types.I1)),
		stringConcat:     m.NewFunc("string_concat", voidPtr, ir.NewParam("a", voidPtr), ir.NewParam("b", voidPtr)),
		promiseCreate:    m.NewFunc("Promise_create", voidPtr),
		promiseGetFuture: m.NewFunc("Promise_getFuture", voidPtr, ir.NewParam("promise", voidPtr)),
		futureGet:        m.NewFunc("Future_get", voidPtr, ir.NewParam("future", voidPtr)),
	}
}
