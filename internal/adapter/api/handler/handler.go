package handler

import (
	"skillswap/internal/usecase"
)

var (
	authHandler     *AuthHandler
	userHandler     *UserHandler
	chatHandler     *ChatHandler
	proposalHandler *ProposalHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	chatUseCase *usecase.ChatUseCase,
	proposalUseCase *usecase.ProposalUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	proposalHandler = NewProposalHandler(proposalUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetProposalHandler() *ProposalHandler {
	return proposalHandler
}
