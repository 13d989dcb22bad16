package echoweb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/session"
	"github.com/rogerjeasy/letusconnect/tests"
)

func TestWorkspaces(t *testing.T) {
	now := time.Now()
	var created []string
	w := newWorkspaces(time.Hour, func(id string) *workspace {
		created = append(created, id)
		sess := session.New(id, nil, testutil.NopLogger{})
		return &workspace{sess: sess, faqs: faq.NewAdmin(nil, sess, nil, nil, testutil.NopLogger{})}
	})
	w.nowFunc = func() time.Time { return now }
	defer w.closeAll()

	a := w.get("a")
	assert.Same(t, a, w.get("a"), "a workspace is reused while active")
	assert.Equal(t, []string{"a"}, created)

	now = now.Add(30 * time.Minute)
	w.get("b")
	assert.Same(t, a, w.get("a"))

	// b was seen at +30m, a at +30m too; at +2h both are idle
	now = now.Add(2 * time.Hour)
	w.get("c")
	assert.NotSame(t, a, w.get("a"), "idle workspaces are dropped")
	assert.Equal(t, []string{"a", "b", "c", "a"}, created)
}

func TestWorkspace_faqsContinued(t *testing.T) {
	ws := &workspace{}
	assert.False(t, ws.takeFAQsContinued())
	ws.continueFAQs()
	assert.True(t, ws.takeFAQsContinued())
	assert.False(t, ws.takeFAQsContinued(), "the flag is reset once taken")
}
