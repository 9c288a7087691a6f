package building

import (
	"errors"
	"fmt"
)

// Rejection reasons. Geometric rejections wrap ErrBlocked.
var (
	ErrDisabled              = errors.New("building disabled")
	ErrInvalidPiece          = errors.New("invalid piece type")
	ErrInsufficientMaterials = errors.New("insufficient materials")
	ErrStructureLimit        = errors.New("structure limit reached")
	ErrBlocked               = errors.New("placement blocked")
	ErrWorldCollision        = fmt.Errorf("%w: intersects world geometry", ErrBlocked)
	ErrStructureOverlap      = fmt.Errorf("%w: overlaps existing structure", ErrBlocked)
	ErrNoFreeEntities        = errors.New("no free entities")
)

// Class groups rejection reasons by who can do something about them.
type Class int

const (
	ClassNone      Class = iota
	ClassConfig          // server configuration
	ClassPolicy          // the requester's own state or a server limit
	ClassGeometric       // where the piece was aimed
	ClassExhausted       // server resources
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassConfig:
		return "config"
	case ClassPolicy:
		return "policy"
	case ClassGeometric:
		return "geometric"
	case ClassExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Classify maps a placement error to its class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrDisabled):
		return ClassConfig
	case errors.Is(err, ErrInvalidPiece),
		errors.Is(err, ErrInsufficientMaterials),
		errors.Is(err, ErrStructureLimit):
		return ClassPolicy
	case errors.Is(err, ErrBlocked):
		return ClassGeometric
	case errors.Is(err, ErrNoFreeEntities):
		return ClassExhausted
	}
	return ClassNone
}

// Message is the console line shown to the requester for a failed placement.
// Empty means the rejection is silent.
func Message(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrDisabled):
		return ""
	case errors.Is(err, ErrInsufficientMaterials):
		return MsgNoMaterials
	case errors.Is(err, ErrStructureLimit):
		return MsgLimit
	case errors.Is(err, ErrInvalidPiece):
		return MsgInvalidPiece
	}
	return MsgCannotPlace
}
