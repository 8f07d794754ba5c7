package httpserver

import (
	"log"
	"net/http"

	"game-market/internal/domain"
	usersvc "game-market/internal/service/user"
	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	GrantType string `form:"grant_type"`
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type addFriendRequest struct {
	Email string `json:"email" binding:"required"`
}

type userResponse struct {
	User domain.User `json:"user"`
}

type friendsResponse struct {
	Results []domain.UserShortInfo `json:"results"`
}

type userHandlers struct {
	svc    UserService
	logger *log.Logger
}

func (h *userHandlers) signup(c *gin.Context) {
	var req usersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "request body is not valid JSON")
		return
	}
	user, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "signup", err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{User: *user})
}

func (h *userHandlers) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}
	if req.GrantType != "" && req.GrantType != "password" {
		writeError(c, http.StatusBadRequest, "unsupported_grant_type", "only the password grant is supported")
		return
	}
	_, access, refresh, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, "token", err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    h.svc.AccessTTLSeconds(),
		RefreshToken: refresh,
	})
}

func (h *userHandlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, userResponse{User: *currentUser(c)})
}

func (h *userHandlers) listFriends(c *gin.Context) {
	friends, err := h.svc.ListFriends(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, "list friends", err)
		return
	}
	if friends == nil {
		friends = []domain.UserShortInfo{}
	}
	c.JSON(http.StatusOK, friendsResponse{Results: friends})
}

func (h *userHandlers) addFriend(c *gin.Context) {
	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "email is required")
		return
	}
	friend, err := h.svc.AddFriendByEmail(c.Request.Context(), currentUser(c).ID, req.Email)
	if err != nil {
		h.fail(c, "add friend", err)
		return
	}
	c.JSON(http.StatusCreated, friend.ShortInfo())
}

func (h *userHandlers) fail(c *gin.Context, op string, err error) {
	respondError(c, h.logger, op, err)
}
