package cookie

import "github.com/gin-gonic/gin"

// AccessTokenCookieName is the cookie the web frontend stores the session token in.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
