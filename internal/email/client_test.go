package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	return &sesv2.SendEmailOutput{}, args.Error(0)
}

func TestSendGiftCreditsEmail(t *testing.T) {
	ses := new(mockSES)
	c := &Client{SESClient: ses, Sender: "noreply@ugcgo.ai", LoginURL: "https://ugcgo.ai/app"}
	ctx := context.Background()

	ses.On("SendEmail", ctx, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return *in.FromEmailAddress == "noreply@ugcgo.ai" &&
			in.Destination.ToAddresses[0] == "user@example.com" &&
			*in.Content.Simple.Subject.Data == "3 video hakkı hesabınıza eklendi"
	})).Return(nil).Once()

	assert.NoError(t, c.SendGiftCreditsEmail(ctx, "user@example.com", 3, 5))
	ses.AssertExpectations(t)
}

func TestSendGiftCreditsEmail_Error(t *testing.T) {
	ses := new(mockSES)
	c := &Client{SESClient: ses, Sender: "noreply@ugcgo.ai"}
	ses.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	assert.Error(t, c.SendGiftCreditsEmail(context.Background(), "user@example.com", 1, 1))
}

func TestIsConfigured(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.IsConfigured())
	assert.False(t, (&Client{SESClient: new(mockSES)}).IsConfigured())
	assert.True(t, (&Client{SESClient: new(mockSES), Sender: "a@b.c"}).IsConfigured())
}
