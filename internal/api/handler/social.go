package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/colormatch/internal/api/middleware"
	"github.com/mcoot/colormatch/internal/api/request"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/services/social"
)

// SocialHandler handles friends, leaderboards, sharing and achievements
type SocialHandler struct {
	platform social.Platform
	sessions *session.Manager
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(platform social.Platform, sessions *session.Manager) *SocialHandler {
	return &SocialHandler{
		platform: platform,
		sessions: sessions,
	}
}

// Friends handles GET /api/v1/social/friends
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	friends, err := h.platform.Friends(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModels(friends))
}

// AddFriend handles POST /api/v1/social/friends
func (h *SocialHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AddFriendRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.FriendID == "" {
		WriteError(w, NewInvalidRequestError("friend_id is required"))
		return
	}

	if err := h.platform.AddFriend(r.Context(), player.ID, model.PlayerID(req.FriendID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Share handles POST /api/v1/social/share
func (h *SocialHandler) Share(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ShareScoreRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	score, level := req.Score, req.Level
	if req.SessionID != "" {
		sess, err := h.sessions.GetForPlayer(model.SessionID(req.SessionID), player.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		score, level = sess.Score(), sess.Level()
	}
	if score < 0 || level < 0 {
		WriteError(w, NewInvalidRequestError("score and level must not be negative"))
		return
	}

	if err := h.platform.ShareScore(r.Context(), player.ID, score, level); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Invite handles POST /api/v1/social/invite
func (h *SocialHandler) Invite(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	count, err := h.platform.InviteFriends(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CountResponse{Count: count})
}

// Challenge handles POST /api/v1/social/challenge
func (h *SocialHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ChallengeRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Score <= 0 {
		WriteError(w, NewInvalidRequestError("score must be positive"))
		return
	}

	count, err := h.platform.ChallengeFriends(r.Context(), player.ID, req.Score)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CountResponse{Count: count})
}

// Challenges handles GET /api/v1/social/challenges
func (h *SocialHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	challenges, err := h.platform.Challenges(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if challenges == nil {
		challenges = []*model.Challenge{}
	}

	response.JSON(w, http.StatusOK, response.ChallengeList{Challenges: challenges})
}

// Achievements handles GET /api/v1/social/achievements
func (h *SocialHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	achievements, err := h.platform.Achievements(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AchievementList{Achievements: achievements})
}

// UnlockAchievement handles POST /api/v1/social/achievements/{id}
func (h *SocialHandler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.AchievementID(mux.Vars(r)["id"])

	newly, err := h.platform.UnlockAchievement(r.Context(), player.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UnlockResponse{Unlocked: newly})
}

// Stats handles GET /api/v1/social/stats
func (h *SocialHandler) Stats(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	stats, err := h.platform.Stats(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// Results handles GET /api/v1/social/results
func (h *SocialHandler) Results(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	results, err := h.platform.Results(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if results == nil {
		results = []*model.GameResult{}
	}

	response.JSON(w, http.StatusOK, response.ResultList{Results: results})
}

// GlobalLeaderboard handles GET /api/v1/leaderboard?limit=N
func (h *SocialHandler) GlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := h.platform.GlobalLeaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Entries: entries})
}

// FriendsLeaderboard handles GET /api/v1/leaderboard/friends
func (h *SocialHandler) FriendsLeaderboard(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	entries, err := h.platform.FriendsLeaderboard(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Entries: entries})
}
