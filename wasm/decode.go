package wasm

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/wasm/internal/binary"
)

// Decode parses a WebAssembly binary module.
//
// The whole input must be a sequence of well-formed sections after the
// preamble. Decoding stops at the first error; no partial Module is returned.
func Decode(data []byte, opts ...Option) (*Module, error) {
	cfg := newDecodeConfig(opts)
	if cfg.MaxModuleSize > 0 && len(data) > cfg.MaxModuleSize {
		return nil, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
			Detail("module is %d bytes, limit %d", len(data), cfg.MaxModuleSize).
			Value(len(data)).
			Build()
	}
	return decode(binary.NewReader(data, 0), cfg)
}

// DecodeReader reads a module from r, refusing inputs larger than the
// configured MaxModuleSize, and decodes it.
func DecodeReader(r io.Reader, opts ...Option) (*Module, error) {
	cfg := newDecodeConfig(opts)
	src := r
	if cfg.MaxModuleSize > 0 {
		src = io.LimitReader(r, int64(cfg.MaxModuleSize)+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Load("read module", err)
	}
	if cfg.MaxModuleSize > 0 && len(data) > cfg.MaxModuleSize {
		return nil, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
			Detail("module exceeds %d bytes", cfg.MaxModuleSize).
			Build()
	}
	return decode(binary.NewReader(data, 0), cfg)
}

func decode(r *binary.Reader, cfg *DecodeConfig) (*Module, error) {
	log := cfg.Logger

	if err := r.Expect(MagicBytes[:]); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindNotWasm).
			At(0).
			Path("preamble").
			Detail("missing \\0asm magic").
			Cause(err).
			Build()
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, scope(err, "version")
	}
	if version != Version {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupportedVersion).
			At(4).
			Path("version").
			Want(fmt.Sprint(Version)).
			Got(fmt.Sprint(version)).
			Value(version).
			Build()
	}

	m := &Module{Magic: MagicBytes, Version: version}

	var seen [SectionDataCount + 1]bool
	lastOrder := 0

	for !r.EOF() {
		hdr, err := decodeSectionHeader(r)
		if err != nil {
			return nil, err
		}
		name := hdr.id.String()

		policy := hdr.id.Policy()
		if policy == PolicyUnknown {
			return nil, errors.New(errors.PhaseDecode, errors.KindUnknownSection).
				At(hdr.offset).
				Got(fmt.Sprintf("0x%02x", byte(hdr.id))).
				Value(byte(hdr.id)).
				Build()
		}

		if hdr.id != SectionCustom {
			if seen[hdr.id] {
				return nil, errors.New(errors.PhaseDecode, errors.KindDuplicateSection).
					At(hdr.offset).
					Path(name).
					Detail("%s section appears more than once", name).
					Build()
			}
			seen[hdr.id] = true
			if hdr.id.order() < lastOrder {
				return nil, errors.New(errors.PhaseDecode, errors.KindSectionOrder).
					At(hdr.offset).
					Path(name).
					Detail("%s section appears out of order", name).
					Build()
			}
			lastOrder = hdr.id.order()
		}

		payload, err := r.Sub(int(hdr.size))
		if err != nil {
			return nil, scope(err, name)
		}

		switch policy {
		case PolicyReject:
			return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
				At(hdr.offset).
				Path(name).
				Detail("%s section is not supported", name).
				Build()
		case PolicySkip:
			if hdr.id == SectionCustom {
				cs, err := decodeCustomSection(payload)
				if err != nil {
					return nil, scope(err, name)
				}
				m.Customs = append(m.Customs, cs)
				log.Debug("custom section", zap.String("name", cs.Name), zap.Int("size", len(cs.Data)))
				continue
			}
			if cfg.StrictSections {
				return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
					At(hdr.offset).
					Path(name).
					Detail("%s section is not supported in strict mode", name).
					Build()
			}
			m.Skipped = append(m.Skipped, SkippedSection{
				ID:     hdr.id,
				Offset: payload.Position(),
				Size:   hdr.size,
			})
			log.Debug("skipped section", zap.Stringer("section", hdr.id), zap.Uint32("size", hdr.size))
			continue
		}

		switch hdr.id {
		case SectionType:
			m.Types, err = decodeTypeSection(payload, cfg)
		case SectionFunction:
			m.Functions, err = decodeFunctionSection(payload, cfg)
		case SectionCode:
			m.Code, err = decodeCodeSection(payload, cfg)
		}
		if err != nil {
			return nil, scope(err, name)
		}

		// The declared length is authoritative; anything the section
		// decoder left behind is dropped with the payload.
		if !payload.EOF() {
			log.Debug("discarded section remainder",
				zap.Stringer("section", hdr.id),
				zap.Int("bytes", payload.Len()),
				zap.Int("offset", payload.Position()))
		}
	}

	log.Debug("decoded module",
		zap.Int("types", len(m.Types)),
		zap.Int("functions", len(m.Functions)),
		zap.Int("bodies", len(m.Code)),
		zap.Int("customs", len(m.Customs)),
		zap.Int("skipped", len(m.Skipped)))

	return m, nil
}
