package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-core/errors"
)

// Validate checks the module for structural validity: section counts agree
// and every index refers to something that exists. Operand stack typing is
// not checked.
func (m *Module) Validate() error {
	if err := m.validateCodeCount(); err != nil {
		return err
	}
	if err := m.validateTypeIndices(); err != nil {
		return err
	}
	return m.validateBodies()
}

func (m *Module) validateCodeCount() error {
	if len(m.Functions) != len(m.Code) {
		return errors.New(errors.PhaseValidate, errors.KindLengthMismatch).
			Path("code").
			Want(fmt.Sprint(len(m.Functions))).
			Got(fmt.Sprint(len(m.Code))).
			Detail("function and code section counts differ").
			Build()
	}
	return nil
}

func (m *Module) validateTypeIndices() error {
	for i, typeIdx := range m.Functions {
		if int(typeIdx) >= len(m.Types) {
			return errors.OutOfBounds(errors.PhaseValidate,
				[]string{"function", fmt.Sprint(i), "type"}, int(typeIdx), len(m.Types))
		}
	}
	return nil
}

func (m *Module) validateBodies() error {
	numFuncs := uint32(len(m.Functions))
	for i, body := range m.Code {
		ft := m.Types[m.Functions[i]]
		numLocals := uint64(len(ft.Params)) + body.NumLocals()

		if n := len(body.Code); n == 0 || body.Code[n-1].Op != OpEnd {
			return errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path("func", fmt.Sprint(i)).
				Detail("body does not end with end").
				Build()
		}

		for j, in := range body.Code {
			switch in.Op {
			case OpCall:
				if in.Index >= numFuncs {
					return errors.OutOfBounds(errors.PhaseValidate,
						[]string{"func", fmt.Sprint(i), "instr", fmt.Sprint(j)}, int(in.Index), int(numFuncs))
				}
			case OpLocalGet, OpLocalSet, OpLocalTee:
				if uint64(in.Index) >= numLocals {
					return errors.OutOfBounds(errors.PhaseValidate,
						[]string{"func", fmt.Sprint(i), "instr", fmt.Sprint(j)}, int(in.Index), int(numLocals))
				}
			default:
				if !in.Op.Known() {
					return errors.New(errors.PhaseValidate, errors.KindUnknownOpcode).
						Path("func", fmt.Sprint(i), "instr", fmt.Sprint(j)).
						Got(in.Op.String()).
						Build()
				}
			}
		}
	}
	return nil
}
