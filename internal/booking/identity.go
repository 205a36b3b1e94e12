package booking

import (
    "context"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// ActorSource provides the lookups needed to resolve a booking actor.
// When resolution happens inside an allocation transaction, the Tx
// implementation is passed here so a guest created for a failing
// reservation rolls back with it.
type ActorSource interface {
    UserByID(ctx context.Context, id uint64) (*model.User, error)
    GuestByPhone(ctx context.Context, phone string) (*model.Guest, error)
    CreateGuest(ctx context.Context, phone, name string) (*model.Guest, error)
}

// ActorInput identifies who is booking: a registered user id or a raw
// phone number with an optional display name.  When both are present
// the user id wins and the phone number is ignored.
type ActorInput struct {
    UserID      *uint64
    PhoneNumber string
    Name        string
}

// ResolveActor maps an ActorInput to a persisted actor and its contact
// phone number.  A phone number with no existing guest row creates one
// lazily; the placeholder name is derived from the number when no name
// was supplied.  The returned phone is always sourced from the resolved
// row, never from untrusted input once a user is involved.
func ResolveActor(ctx context.Context, src ActorSource, in ActorInput) (model.Actor, string, error) {
    if in.UserID != nil {
        u, err := src.UserByID(ctx, *in.UserID)
        if err != nil {
            return model.Actor{}, "", err
        }
        return model.Actor{Kind: model.ActorUser, ID: u.ID}, u.PhoneNumber, nil
    }

    phone := strings.TrimSpace(in.PhoneNumber)
    if phone == "" {
        return model.Actor{}, "", ErrActorRequired
    }
    g, err := src.GuestByPhone(ctx, phone)
    if err == nil {
        return model.Actor{Kind: model.ActorGuest, ID: g.ID}, g.PhoneNumber, nil
    }
    if err != ErrGuestNotFound {
        return model.Actor{}, "", err
    }
    name := strings.TrimSpace(in.Name)
    if name == "" {
        name = "Guest " + phone
    }
    g, err = src.CreateGuest(ctx, phone, name)
    if err != nil {
        return model.Actor{}, "", err
    }
    return model.Actor{Kind: model.ActorGuest, ID: g.ID}, g.PhoneNumber, nil
}
