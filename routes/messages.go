package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rozzgari-server/database"
	"rozzgari-server/models"
)

// MessageSendRequest is the payload for sending a direct message
type MessageSendRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required,min=1"`
	JobID      *uint  `json:"job_id"`
}

// RegisterMessageRoutes registers messaging routes, all authenticated
func RegisterMessageRoutes(protected *gin.RouterGroup) {
	messages := protected.Group("/messages")
	messages.POST("", sendMessage)
	messages.GET("/conversation/:userId", getConversation)
	messages.GET("/conversations", getConversations)
}

// sendMessage persists a direct message. Live delivery happens over the
// websocket relay independently of this store.
func sendMessage(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message data", "details": err.Error()})
		return
	}

	var receiver models.User
	if err := database.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receiver"})
		}
		return
	}

	message := models.Message{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		JobID:      req.JobID,
		Content:    req.Content,
		IsRead:     false,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	database.DB.Preload("Sender").Preload("Receiver").First(&message, message.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// getConversation returns the messages between the caller and another
// user, oldest first within the page. As a side effect every unread
// message from the other user is marked read, so this read is not free
// of writes.
func getConversation(c *gin.Context) {
	userID := c.GetUint("user_id")

	otherUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	between := database.DB.Model(&models.Message{}).Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherUserID, otherUserID, userID,
	)

	var total int64
	between.Count(&total)

	var messages []models.Message
	if err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Reverse to chronological ascending for display
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	now := time.Now()
	database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherUserID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getConversations lists one entry per correspondent: the latest
// message exchanged and the number of their messages still unread.
// Grouping is done in two passes here instead of in the store: walk the
// messages newest-first, keep the first one seen per counterpart, count
// unread along the way.
func getConversations(c *gin.Context) {
	userID := c.GetUint("user_id")

	var messages []models.Message
	if err := database.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	lastMessage := make(map[uint]models.Message)
	unreadCount := make(map[uint]int)
	order := make([]uint, 0)

	for _, msg := range messages {
		otherID := msg.SenderID
		if msg.SenderID == userID {
			otherID = msg.ReceiverID
		}
		if _, seen := lastMessage[otherID]; !seen {
			lastMessage[otherID] = msg
			order = append(order, otherID)
		}
		if msg.ReceiverID == userID && !msg.IsRead {
			unreadCount[otherID]++
		}
	}

	var others []models.User
	if len(order) > 0 {
		if err := database.DB.Where("id IN ?", order).Find(&others).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
	}
	usersByID := make(map[uint]models.User, len(others))
	for _, u := range others {
		usersByID[u.ID] = u
	}

	conversations := make([]models.ConversationSummary, 0, len(order))
	for _, otherID := range order {
		other, ok := usersByID[otherID]
		if !ok {
			continue
		}
		conversations = append(conversations, models.ConversationSummary{
			OtherUser: models.ConversationUser{
				ID:             other.ID,
				Name:           other.Name,
				ProfilePicture: other.ProfilePicture,
				UserType:       other.UserType,
			},
			LastMessage: lastMessage[otherID],
			UnreadCount: unreadCount[otherID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}
