package handler

const (
	errInternalServer     = "Internal server error"
	errUserNotFound       = "User not found"
	errAnimalNotFound     = "Animal not found"
	errUsernameTaken      = "Username is already taken"
	errAlreadyAdopted     = "Animal is already adopted by this user"
	errNotOwned           = "Animal is not owned by this user"
	errInvalidCredentials = "Invalid username or password"
	errTokenInvalid       = "Token is invalid or expired"
)
