package cpu

// Quirks selects between the behaviours that diverged across CHIP-8
// interpreters. The zero value matches the CHIP-48/SCHIP conventions that
// most programs written after 1990 expect.
type Quirks struct {
	// ShiftUsesVY makes 8xy6/8xyE shift Vy into Vx (COSMAC VIP).
	// When false, Vx is shifted in place and Vy is ignored.
	ShiftUsesVY bool
	// LoadStoreIncrementsI leaves I pointing past the last register
	// accessed by Fx55/Fx65 (COSMAC VIP).
	LoadStoreIncrementsI bool
	// JumpUsesVX makes Bnnn behave as Bxnn, jumping to xnn + Vx.
	JumpUsesVX bool
	// LogicResetsVF clears VF after 8xy1, 8xy2 and 8xy3 (COSMAC VIP).
	LogicResetsVF bool
	// ClipSprites drops sprite pixels past the right and bottom edges
	// instead of wrapping them around.
	ClipSprites bool
	// WaitForRelease makes Fx0A complete when a key is released
	// rather than as soon as it is pressed (COSMAC VIP).
	WaitForRelease bool
}

// COSMACQuirks returns the behaviour of the original COSMAC VIP interpreter.
func COSMACQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		LogicResetsVF:        true,
		ClipSprites:          true,
		WaitForRelease:       true,
	}
}
