package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/internal/store"
	"github.com/Mutter0815/PageBuilder/pkg/model"
)

type acker struct {
	acks, nacks int
	requeue     bool
}

func (a *acker) Ack(uint64, bool) error { a.acks++; return nil }

func (a *acker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *acker) Reject(uint64, bool) error { return nil }

type requeuer struct {
	headers []amqp.Table
	err     error
}

func (r *requeuer) PublishJSONWithHeaders(_ context.Context, _ []byte, h amqp.Table) error {
	if r.err != nil {
		return r.err
	}
	r.headers = append(r.headers, h)
	return nil
}

type downStore struct{}

func (downStore) GetCampaign(context.Context, string) (campaign.Campaign, error) {
	return campaign.Campaign{}, apperr.Transport(errors.New("connection refused"), "get campaign")
}

func delivery(t *testing.T, ev model.CampaignEvent, headers amqp.Table) (amqp.Delivery, *acker) {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	a := &acker{}
	return amqp.Delivery{Acknowledger: a, Body: body, Headers: headers}, a
}

func newWorker(st Campaigns, pub Requeuer) *Worker {
	w := New(st, nil, pub, 3)
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func seed(t *testing.T, sections ...section.Section) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, st.CreateCampaign(context.Background(), &campaign.Campaign{
		Name: "Spring Sale", Slug: "spring-sale", IsActive: true,
		BackgroundColor: campaign.DefaultBackground, Sections: sections,
	}))
	return st
}

func TestHandle_AuditsCleanPage(t *testing.T) {
	st := seed(t, section.Section{Type: section.TypeHeader, Title: "Hi", Content: section.Text("Welcome")})
	w := newWorker(st, &requeuer{})

	d, a := delivery(t, model.CampaignEvent{Type: model.CampaignCreated, Slug: "spring-sale"}, nil)
	r := w.Handle(context.Background(), d)

	assert.Equal(t, ActionAudited, r.Action)
	assert.Empty(t, r.Integrity)
	assert.Empty(t, r.Invalid)
	assert.Equal(t, 1, a.acks)
}

func TestHandle_ReportsBrokenSections(t *testing.T) {
	st := seed(t,
		section.Section{Type: section.TypeHeader, Title: "", Content: section.Text("no title")},
		section.Section{Type: "carousel", Content: section.Text("?")},
	)
	w := newWorker(st, &requeuer{})

	d, a := delivery(t, model.CampaignEvent{Type: model.CampaignUpdated, Slug: "spring-sale"}, nil)
	r := w.Handle(context.Background(), d)

	assert.Equal(t, ActionAudited, r.Action)
	require.Len(t, r.Integrity, 1)
	assert.Equal(t, apperr.CodeUnknownType, apperr.CodeOf(r.Integrity[0]))
	require.Len(t, r.Invalid, 2)
	assert.Equal(t, apperr.CodeTitleRequired, apperr.CodeOf(r.Invalid[0]))
	assert.Equal(t, 1, a.acks)
}

func TestHandle_SkipsDeletedAndMissing(t *testing.T) {
	w := newWorker(store.NewMemory(), &requeuer{})

	d, a := delivery(t, model.CampaignEvent{Type: model.CampaignDeleted, Slug: "gone"}, nil)
	assert.Equal(t, ActionSkipped, w.Handle(context.Background(), d).Action)
	assert.Equal(t, 1, a.acks)

	d, a = delivery(t, model.CampaignEvent{Type: model.CampaignUpdated, Slug: "gone"}, nil)
	assert.Equal(t, ActionSkipped, w.Handle(context.Background(), d).Action)
	assert.Equal(t, 1, a.acks)
}

func TestHandle_DropsGarbage(t *testing.T) {
	w := newWorker(store.NewMemory(), &requeuer{})
	a := &acker{}
	r := w.Handle(context.Background(), amqp.Delivery{Acknowledger: a, Body: []byte("{nope")})
	assert.Equal(t, ActionDropped, r.Action)
	assert.Equal(t, 1, a.acks)
}

func TestHandle_RetriesTransportFailures(t *testing.T) {
	pub := &requeuer{}
	w := newWorker(downStore{}, pub)
	ev := model.CampaignEvent{Type: model.CampaignUpdated, Slug: "spring-sale"}

	d, a := delivery(t, ev, amqp.Table{"x-retries": int32(1), "trace": "abc"})
	r := w.Handle(context.Background(), d)

	assert.Equal(t, ActionRequeued, r.Action)
	assert.Equal(t, 2, r.Retries)
	require.Len(t, pub.headers, 1)
	assert.Equal(t, int32(2), pub.headers[0]["x-retries"])
	assert.Equal(t, "abc", pub.headers[0]["trace"])
	assert.Equal(t, int32(1), d.Headers["x-retries"], "original headers untouched")
	assert.Equal(t, 1, a.acks)

	d, a = delivery(t, ev, amqp.Table{"x-retries": int32(3)})
	r = w.Handle(context.Background(), d)
	assert.Equal(t, ActionDropped, r.Action)
	assert.Len(t, pub.headers, 1)
	assert.Equal(t, 1, a.acks)
}

func TestHandle_RequeueFailureNacks(t *testing.T) {
	w := newWorker(downStore{}, &requeuer{err: errors.New("channel closed")})

	d, a := delivery(t, model.CampaignEvent{Type: model.CampaignCreated, Slug: "x"}, nil)
	w.Handle(context.Background(), d)

	assert.Equal(t, 0, a.acks)
	assert.Equal(t, 1, a.nacks)
	assert.True(t, a.requeue)
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), backoffDelay(0))
	assert.Equal(t, time.Second, backoffDelay(1))
	assert.Equal(t, 4*time.Second, backoffDelay(3))
}

func TestHeaderRetries(t *testing.T) {
	assert.Equal(t, 0, headerRetries(nil))
	assert.Equal(t, 2, headerRetries(amqp.Table{"x-retries": int64(2)}))
	assert.Equal(t, 5, headerRetries(amqp.Table{"x-retries": uint8(5)}))
	assert.Equal(t, 0, headerRetries(amqp.Table{"x-retries": "7"}))
}
