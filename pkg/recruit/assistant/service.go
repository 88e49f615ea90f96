package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/agentx"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/memoryx"
	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewsrv"
	"github.com/google/uuid"
)

// InterviewReader is the read side of the interview service the tools use
type InterviewReader interface {
	List(ctx context.Context, q interviewsrv.ListQuery) ([]*interviewsrv.InterviewView, error)
	Summary(ctx context.Context, filter interview.ListFilter) (interview.Summary, error)
	PendingReviews(ctx context.Context, lang interview.Lang) ([]*interviewsrv.InterviewView, error)
	ReviewStats(ctx context.Context, filter interview.ReviewFilter) (interview.ReviewStats, error)
}

type Service struct {
	model      llm.LLM
	store      memoryx.Store
	interviews InterviewReader
	cfg        *config.AIConfig
	loc        *time.Location
	now        func() time.Time
}

// NewService builds the assistant. A nil model leaves it disabled: every
// Ask fails with ErrNotConfigured.
func NewService(model llm.LLM, store memoryx.Store, interviews InterviewReader, cfg *config.AIConfig, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		model:      model,
		store:      store,
		interviews: interviews,
		cfg:        cfg,
		loc:        loc,
		now:        func() time.Time { return time.Now().In(loc) },
	}
}

// Ask runs one turn of the conversation. An empty conversationID starts a
// new conversation. Conversations are private to the asking user.
func (s *Service) Ask(ctx context.Context, authContext *kernel.AuthContext, conversationID, question string) (*Answer, error) {
	if s.model == nil {
		return nil, ErrNotConfigured()
	}

	question = strings.TrimSpace(question)
	if question == "" || utf8.RuneCountInString(question) > MaxQuestionLength {
		return nil, ErrInvalidQuestion().WithDetail("max_length", MaxQuestionLength)
	}

	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	if len(conversationID) > MaxConversationIDLength {
		return nil, ErrInvalidQuestion().WithDetail("conversation_id", "too long")
	}

	memory := memoryx.NewConversation(s.store, conversationKey(authContext, conversationID), s.systemPrompt(authContext), s.cfg.MaxHistory)
	agent := agentx.New(s.model, memory,
		agentx.WithTools(s.toolsFor(authContext)),
		agentx.WithMaxAutoIterations(s.cfg.MaxToolIterations),
		agentx.WithMaxTotalIterations(s.cfg.MaxToolIterations+1),
		agentx.WithOptions(
			llm.WithModel(s.cfg.Model),
			llm.WithTemperature(float32(s.cfg.Temperature)),
			llm.WithUser(authContext.UserID.String()),
		),
	)

	start := time.Now()
	result, err := agent.Run(ctx, question)
	if err != nil {
		logx.WithFields(logx.Fields{
			"user_id":         authContext.UserID,
			"conversation_id": conversationID,
		}).WithError(err).Warn("Assistant turn failed")
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"user_id":         authContext.UserID,
		"conversation_id": conversationID,
		"tools":           result.ToolsUsed,
		"tokens":          result.Usage.TotalTokens,
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Info("Assistant answered")

	return &Answer{
		ConversationID: conversationID,
		Reply:          result.Answer,
		ToolsUsed:      result.ToolsUsed,
	}, nil
}

// Reset forgets a conversation of the calling user
func (s *Service) Reset(ctx context.Context, authContext *kernel.AuthContext, conversationID string) error {
	return s.store.Delete(ctx, conversationKey(authContext, conversationID))
}

func conversationKey(authContext *kernel.AuthContext, conversationID string) string {
	return authContext.UserID.String() + ":" + conversationID
}

func (s *Service) systemPrompt(authContext *kernel.AuthContext) string {
	now := s.now()
	return fmt.Sprintf(`Bạn là AI Assistant chuyên nghiệp hỗ trợ tuyển dụng. Trả lời chính xác, ngắn gọn bằng tiếng Việt.
Người dùng: %s.
Bây giờ là %s (múi giờ %s).
Hãy dùng các công cụ được cung cấp để tra cứu lịch phỏng vấn và đánh giá; không tự bịa số liệu.
Bạn chỉ có quyền xem dữ liệu: không thể tạo, sửa, kết thúc hay hủy buổi phỏng vấn. Nếu được yêu cầu, hãy hướng dẫn người dùng thao tác trên màn hình Phỏng vấn.`,
		authContext.DisplayName(), now.Format("15:04 02/01/2006"), s.loc.String())
}
