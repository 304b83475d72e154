package audit

import "sort"

// SortFindings orders findings deterministically: by input key, then by the
// primary location's byte range, then by audit ID, so that repeated runs
// over unchanged input produce byte-for-byte identical output.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		ai, aok := a.Primary()
		bi, bok := b.Primary()

		if aok != bok {
			return aok
		}
		if aok && bok {
			if ai.Symbolic.Input.Kind != bi.Symbolic.Input.Kind {
				return ai.Symbolic.Input.Kind < bi.Symbolic.Input.Kind
			}
			if ai.Symbolic.Input.Path != bi.Symbolic.Input.Path {
				return ai.Symbolic.Input.Path < bi.Symbolic.Input.Path
			}
			if ai.ByteStart != bi.ByteStart {
				return ai.ByteStart < bi.ByteStart
			}
			if ai.ByteEnd != bi.ByteEnd {
				return ai.ByteEnd < bi.ByteEnd
			}
		}
		return a.AuditID < b.AuditID
	})
}
