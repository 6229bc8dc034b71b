package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/pkg/logger"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNotification(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var n EmailNotification
		if err := json.Unmarshal(val, &n); err != nil {
			return err
		}
		if n.Attachment == nil || string(n.Attachment.Data) != "%PDF" {
			return errors.New("attachment not carried")
		}
		return nil
	})
	mock.ExpectSendMessageAndFail(errors.New("leader not available"))

	producer := NewKafkaNotificationProducerWith(mock, DefaultKafkaProducerConfig(), logger.Discard())

	n := testNotification("guest@example.com")
	n.Attachment = &Attachment{Filename: "x.pdf", Data: []byte("%PDF")}
	require.NoError(t, producer.PublishNotification(context.Background(), n))
	assert.Equal(t, NotificationStatusQueued, n.Status)

	failed := testNotification("guest@example.com")
	err := producer.PublishNotification(context.Background(), failed)
	assert.ErrorIs(t, err, apperror.ErrDelivery)
	assert.Equal(t, NotificationStatusFailed, failed.Status)

	require.NoError(t, producer.Close())
}
