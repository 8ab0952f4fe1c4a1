package models

// Actor - аутентифицированный пользователь, выполняющий операцию.
// Движок не проверяет учетные данные - идентичность приходит из JWT.
type Actor struct {
	ID         string
	Role       UserRole
	Department string
}

func (a Actor) IsSystem() bool {
	return a.ID == SystemActorID
}

func SystemActor() Actor {
	return Actor{
		ID:   SystemActorID,
		Role: UserRoleAdmin,
	}
}
