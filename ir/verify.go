package ir

import "fmt"

// VerifyError describes one structural defect found by Verify. Multiple
// errors can be returned together; the function compiler attaches the
// textual Dump of the offending function alongside them in its EIRVerify
// diagnostic (spec §4.K step 6).
type VerifyError struct {
	Function string
	Block    string
	Message  string
}

func (e VerifyError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Function, e.Block, e.Message)
}

// Verify checks that every block in f ends in exactly one terminator and
// that every branch target is a block belonging to f — the minimal
// well-formedness the node/function compiler must guarantee before treating
// a function as compiled (spec §4.K step 6: "verify the IR function").
func Verify(f *Function) []error {
	var errs []error

	known := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		known[b] = true
	}

	for _, b := range f.Blocks {
		if len(b.Instrs) == 0 {
			errs = append(errs, VerifyError{Function: f.Name, Block: b.Name, Message: "block has no instructions"})
			continue
		}
		for i, instr := range b.Instrs {
			if instr.IsTerminator() && i != len(b.Instrs)-1 {
				errs = append(errs, VerifyError{Function: f.Name, Block: b.Name, Message: "terminator is not the last instruction"})
			}
		}
		term := b.Terminator()
		if term == nil {
			errs = append(errs, VerifyError{Function: f.Name, Block: b.Name, Message: "block has no terminator"})
			continue
		}
		for _, target := range term.Targets {
			if !known[target] {
				errs = append(errs, VerifyError{Function: f.Name, Block: b.Name, Message: fmt.Sprintf("branch target %q does not belong to this function", target.Name)})
			}
		}
	}

	return errs
}
