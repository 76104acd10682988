package utils

import "testing"

func TestGenerateAndExtract(t *testing.T) {
	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("не удалось сгенерировать токен: %v", err)
	}

	userID, err := ExtractUserIDFromToken(token)
	if err != nil {
		t.Fatalf("не удалось извлечь userID: %v", err)
	}
	if userID != 42 {
		t.Errorf("ожидался userID 42, получен %d", userID)
	}
}

// Токен принимается и с префиксом "Bearer ", как он приходит в заголовке
func TestValidateTokenBearerPrefix(t *testing.T) {
	token, err := GenerateJWT(7)
	if err != nil {
		t.Fatalf("не удалось сгенерировать токен: %v", err)
	}

	claims, err := ValidateToken("Bearer " + token)
	if err != nil {
		t.Fatalf("токен с префиксом Bearer должен приниматься: %v", err)
	}
	if claims.Subject != "7" {
		t.Errorf("ожидался Subject \"7\", получен %q", claims.Subject)
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("недействительный токен должен давать ошибку")
	}
}
