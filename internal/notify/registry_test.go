package notify

import "testing"

func TestRegistry_PublishReachesAllSubscribers(t *testing.T) {
	r := NewRegistry[int]()

	ch1, dispose1 := r.Subscribe("job")
	ch2, dispose2 := r.Subscribe("job")
	defer dispose1()
	defer dispose2()

	r.Publish("job", 42)

	if got := <-ch1; got != 42 {
		t.Errorf("ch1 received %d, want 42", got)
	}
	if got := <-ch2; got != 42 {
		t.Errorf("ch2 received %d, want 42", got)
	}
}

func TestRegistry_TopicsAreIndependent(t *testing.T) {
	r := NewRegistry[string]()

	chA, disposeA := r.Subscribe("a")
	_, disposeB := r.Subscribe("b")
	defer disposeA()
	defer disposeB()

	r.Publish("a", "hello")

	if got := <-chA; got != "hello" {
		t.Errorf("chA received %q", got)
	}

	select {
	case v := <-chA:
		t.Errorf("unexpected second value on chA: %v", v)
	default:
	}
}

func TestRegistry_DisposeRemovesSubscriberAndTopic(t *testing.T) {
	r := NewRegistry[int]()

	ch, dispose := r.Subscribe("job")
	if got := r.SubscriberCount("job"); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}
	if got := r.TopicCount(); got != 1 {
		t.Fatalf("TopicCount = %d, want 1", got)
	}

	dispose()

	if got := r.SubscriberCount("job"); got != 0 {
		t.Errorf("SubscriberCount after dispose = %d, want 0", got)
	}
	// Last subscriber gone: topic torn down
	if got := r.TopicCount(); got != 0 {
		t.Errorf("TopicCount after dispose = %d, want 0", got)
	}

	// Disposed channel is closed
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after dispose")
	}
}

func TestRegistry_DisposeIsIdempotent(t *testing.T) {
	r := NewRegistry[int]()

	_, dispose := r.Subscribe("job")
	_, dispose2 := r.Subscribe("job")

	dispose()
	dispose() // second call is a no-op

	if got := r.SubscriberCount("job"); got != 1 {
		t.Errorf("SubscriberCount = %d, want 1 (double dispose must not remove others)", got)
	}

	dispose2()
}

func TestRegistry_TopicSurvivesUntilLastSubscriber(t *testing.T) {
	r := NewRegistry[int]()

	_, dispose1 := r.Subscribe("job")
	ch2, dispose2 := r.Subscribe("job")
	defer dispose2()

	dispose1()

	if got := r.TopicCount(); got != 1 {
		t.Fatalf("TopicCount = %d, want 1 (one subscriber remains)", got)
	}

	r.Publish("job", 7)
	if got := <-ch2; got != 7 {
		t.Errorf("remaining subscriber received %d, want 7", got)
	}
}

func TestRegistry_CloseSignalsCompletion(t *testing.T) {
	r := NewRegistry[int]()

	ch, dispose := r.Subscribe("job")
	defer dispose()

	r.Publish("job", 1)
	r.Close("job")

	// Publishes after Close are dropped
	r.Publish("job", 2)

	if got := <-ch; got != 1 {
		t.Errorf("received %d, want 1", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close")
	}
}

func TestRegistry_DisposeAfterCloseIsSafe(t *testing.T) {
	r := NewRegistry[int]()

	_, dispose := r.Subscribe("job")
	r.Close("job")

	// Must not panic (channel already closed by Close)
	dispose()

	if got := r.TopicCount(); got != 0 {
		t.Errorf("TopicCount = %d, want 0", got)
	}
}

func TestRegistry_SlowSubscriberIsSkipped(t *testing.T) {
	r := NewRegistry[int]()

	ch, dispose := r.Subscribe("job")
	defer dispose()

	// Overflow the buffer; extra publishes are dropped, not blocking
	for i := 0; i < 100; i++ {
		r.Publish("job", i)
	}

	// The first 16 values made it through in order
	for i := 0; i < 16; i++ {
		if got := <-ch; got != i {
			t.Fatalf("received %d, want %d", got, i)
		}
	}

	select {
	case v := <-ch:
		t.Errorf("unexpected value beyond buffer: %d", v)
	default:
	}
}

func TestRegistry_PublishToUnknownTopicIsNoOp(t *testing.T) {
	r := NewRegistry[int]()
	r.Publish("nope", 1) // must not panic or create a topic

	if got := r.TopicCount(); got != 0 {
		t.Errorf("TopicCount = %d, want 0", got)
	}
}
