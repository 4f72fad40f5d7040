package notifications

import (
	"errors"
	"strings"
	"testing"

	"voyago/models"
)

type stubSender struct {
	fail  bool
	sent  int
	to    string
	title string
}

func (s *stubSender) Send(to, subject, body string) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.sent++
	s.to = to
	s.title = subject
	return nil
}

func TestDeliverEmailSwallowsFailure(t *testing.T) {
	orig := Mailer
	defer func() { Mailer = orig }()

	n := &models.Notification{Title: "Booking confirmed", Message: "See you soon"}

	Mailer = &stubSender{fail: true}
	if deliverEmail("user@example.com", n) {
		t.Error("failed send reported as success")
	}
	if n.IsEmailSent {
		t.Error("isEmailSent flipped despite failure")
	}

	ok := &stubSender{}
	Mailer = ok
	if !deliverEmail("user@example.com", n) {
		t.Error("successful send reported as failure")
	}
	if ok.sent != 1 || ok.to != "user@example.com" || ok.title != "Booking confirmed" {
		t.Errorf("unexpected send: %+v", ok)
	}
}

func TestDeliverEmailNilMailer(t *testing.T) {
	orig := Mailer
	defer func() { Mailer = orig }()

	Mailer = nil
	if deliverEmail("user@example.com", &models.Notification{}) {
		t.Error("nil mailer should never report success")
	}
}

func TestEmailBody(t *testing.T) {
	body := emailBody(&models.Notification{Title: "Hi", Message: "There"})
	if !strings.Contains(body, "Hi") || !strings.Contains(body, "There") {
		t.Errorf("body missing content: %s", body)
	}
}

func TestRelatedCollectionClosedSet(t *testing.T) {
	for _, model := range []models.RelatedModel{
		models.RelatedBooking, models.RelatedTour, models.RelatedPayment,
	} {
		coll, idField, err := relatedCollection(model)
		if err != nil {
			t.Errorf("relatedCollection(%s) err = %v", model, err)
		}
		if coll == nil || idField == "" {
			t.Errorf("relatedCollection(%s) returned no target", model)
		}
	}

	coll, _, err := relatedCollection(models.RelatedSystem)
	if err != nil || coll != nil {
		t.Errorf("system variant should resolve to no collection, got %v, %v", coll, err)
	}

	if _, _, err := relatedCollection("comment"); err == nil {
		t.Error("unknown related model accepted")
	}
}
