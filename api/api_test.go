package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pregame-dev/pregame/auth"
	"github.com/pregame-dev/pregame/auth/gate"
	"github.com/pregame-dev/pregame/internal/testutil"
	"github.com/pregame-dev/pregame/partydb"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

const sessionCookie = "better-auth.session_token=abc123.SIGNATURE"

func testHandler(ctx context.Context, t *testing.T) (http.Handler, *partydb.Store, func()) {
	store, cleanup := testutil.AcquireStore(ctx, t)
	testutil.SeedGuestSession(ctx, t, store, partydb.Guest{
		GuestID:            "u1",
		ProviderIdentityID: "ext-u1",
		Name:               "Ada",
		Email:              "a@b.com",
	}, "abc123", time.Now().Add(time.Hour))
	realm := gate.NewRealm(auth.ExtractSessionCookie, auth.NewSessionValidator(store))
	return AsHandler(store, realm), store, cleanup
}

func TestPartyEndpoints(t *testing.T) {
	ctx := context.Background()
	handler, store, cleanup := testHandler(ctx, t)
	defer cleanup()

	// party listing stays public
	apitest.Handler(handler).
		Get("/parties").
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()

	// creation requires a session
	apitest.Handler(handler).
		Post("/parties").
		JSON(`{"name": "Housewarming", "location": "Rooftop"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.Handler(handler).
		Post("/parties").
		Header("Cookie", sessionCookie).
		JSON(`{"name": "Housewarming", "location": "Rooftop", "slug": "housewarming"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.name`, "Housewarming")).
		Assert(jsonpath.Present(`$.party_id`)).
		End()

	parties, err := store.ListParties(ctx)
	if err != nil || len(parties) != 1 {
		t.Fatal("expected exactly one party", err)
	}
	partyID := parties[0].PartyID

	apitest.Handler(handler).
		Get("/parties/" + partyID).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.location`, "Rooftop")).
		End()

	apitest.Handler(handler).
		Put("/parties/"+partyID).
		Header("Cookie", sessionCookie).
		JSON(`{"name": "Housewarming", "location": "Basement"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.location`, "Basement")).
		End()

	apitest.Handler(handler).
		Delete("/parties/" + partyID).
		Header("Cookie", sessionCookie).
		Expect(t).
		Status(http.StatusNoContent).
		End()

	apitest.Handler(handler).
		Get("/parties/" + partyID).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestRsvpEndpoints(t *testing.T) {
	ctx := context.Background()
	handler, store, cleanup := testHandler(ctx, t)
	defer cleanup()

	party, err := store.CreateParty(ctx, partydb.PartyFields{Name: "brunch"})
	if err != nil {
		t.Fatal(err)
	}

	// first access creates the pending rsvp, the second returns it
	for i := 0; i < 2; i++ {
		apitest.Handler(handler).
			Get("/parties/" + party.PartyID + "/rsvp").
			Header("Cookie", sessionCookie).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.status`, "pending")).
			Assert(jsonpath.Equal(`$.guest_id`, "u1")).
			End()
	}
	rsvps, err := store.ListPartyRsvps(ctx, party.PartyID)
	if err != nil || len(rsvps) != 1 {
		t.Fatal("expected exactly one rsvp row", err)
	}
	rsvpID := rsvps[0].RsvpID

	apitest.Handler(handler).
		Put("/rsvp").
		Header("Cookie", sessionCookie).
		JSON(`{"rsvp_id": "`+rsvpID+`", "status": "going"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "going")).
		End()

	apitest.Handler(handler).
		Put("/rsvp").
		Header("Cookie", sessionCookie).
		JSON(`{"rsvp_id": "`+rsvpID+`", "status": "definitely"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()

	apitest.Handler(handler).
		Get("/parties/" + party.PartyID + "/rsvps").
		Header("Cookie", sessionCookie).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		End()

	apitest.Handler(handler).
		Delete("/parties/" + party.PartyID + "/rsvp").
		Header("Cookie", sessionCookie).
		Expect(t).
		Status(http.StatusNoContent).
		End()

	apitest.Handler(handler).
		Get("/parties/missing/rsvp").
		Header("Cookie", sessionCookie).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	handler, _, cleanup := testHandler(ctx, t)
	defer cleanup()

	apitest.Handler(handler).
		Get("/me").
		Header("Cookie", sessionCookie).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.user_id`, "u1")).
		Assert(jsonpath.Equal(`$.email`, "a@b.com")).
		End()

	apitest.Handler(handler).
		Get("/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}
