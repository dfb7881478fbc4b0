// Package authz holds the capability checks evaluated before every mutating
// or sensitive-read operation. The gate has no state of its own: each check
// is a pure function of the acting user and the resource, returning
// model.ErrForbidden when the actor lacks the capability.
package authz

import (
	"skillswap/internal/model"
)

// CanEditSkill allows only the skill's owner, whichever owner column holds it.
func CanEditSkill(actorID int64, skill *model.Skill) error {
	if skill.OwnerID() != actorID {
		return model.ErrForbidden
	}
	return nil
}

// CanAnswerSwap allows only the receiver to accept or reject.
func CanAnswerSwap(actorID int64, req *model.SwapRequest) error {
	if req.ReceiverID != actorID {
		return model.ErrForbidden
	}
	return nil
}

// CanCancelSwap allows only the sender to withdraw an unanswered request.
func CanCancelSwap(actorID int64, req *model.SwapRequest) error {
	if req.SenderID != actorID {
		return model.ErrForbidden
	}
	return nil
}

// CanCompleteSwap allows either participant to confirm the swap happened.
func CanCompleteSwap(actorID int64, req *model.SwapRequest) error {
	if !req.IsParticipant(actorID) {
		return model.ErrForbidden
	}
	return nil
}

// CanViewSwap allows only participants to read a request.
func CanViewSwap(actorID int64, req *model.SwapRequest) error {
	if !req.IsParticipant(actorID) {
		return model.ErrForbidden
	}
	return nil
}

// CanViewProfile allows anyone to see a public profile; private profiles are
// visible only to their owner. viewer is nil for unauthenticated requests.
func CanViewProfile(viewer *model.User, profile *model.User) error {
	if profile.IsPublic {
		return nil
	}
	if viewer != nil && (viewer.ID == profile.ID || viewer.IsAdmin) {
		return nil
	}
	return model.ErrForbidden
}

// RequireAdmin gates the administrative read-only surface.
func RequireAdmin(actor *model.User) error {
	if actor == nil || !actor.IsAdmin {
		return model.ErrForbidden
	}
	return nil
}
