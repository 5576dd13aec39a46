package main

import (
	"io"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Answer client conversations",
	}

	cmd.AddCommand(chatListCmd())
	cmd.AddCommand(chatCreateCmd())
	cmd.AddCommand(chatDeleteCmd())
	cmd.AddCommand(chatMessagesCmd())
	cmd.AddCommand(chatSendCmd())
	cmd.AddCommand(chatReadCmd())

	return cmd
}

func chatListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List support conversations",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			conversations, err := s.client.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			if unread, _ := cmd.Flags().GetBool("unread"); unread {
				conversations = unreadConversations(conversations)
			}
			return cli.RenderTable(cmd.OutOrStdout(), conversationColumns(), conversations)
		}),
	}

	cmd.Flags().Bool("unread", false, "only conversations with unread messages")

	return cmd
}

func unreadConversations(conversations []model.Conversation) []model.Conversation {
	out := make([]model.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c.UnreadCount > 0 {
			out = append(out, c)
		}
	}
	return out
}

func conversationColumns() []cli.Column[model.Conversation] {
	return []cli.Column[model.Conversation]{
		cli.Field("ID", "id", func(c model.Conversation) string { return c.ID }),
		cli.Field("CLIENT", "kabaUserId", func(c model.Conversation) string { return c.KabaUserID }),
		cli.Field("SUJET", "subject", func(c model.Conversation) string { return cli.Truncate(c.Subject, 40) }),
		cli.Computed("NON LUS", func(c model.Conversation) string {
			if c.UnreadCount == 0 {
				return "-"
			}
			return cli.StyleWarning(itoa(c.UnreadCount))
		}),
		cli.Field("DERNIER MESSAGE", "lastMessageAt", func(c model.Conversation) string { return cli.FormatDatePtr(c.LastMessageAt) }),
	}
}

func chatCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a conversation with a client",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			userID, _ := cmd.Flags().GetString("user")
			subject, _ := cmd.Flags().GetString("subject")
			conversation, err := s.client.CreateConversation(cmd.Context(), userID, subject)
			if err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Conversation "+conversation.ID+" créée"))
			return nil
		}),
	}

	cmd.Flags().String("user", "", "KABA user id of the client")
	cmd.Flags().String("subject", "", "conversation subject")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func chatDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				if err := newPrompter(cmd).Confirm(cmd.Context(), "Supprimer la conversation "+args[0]+" ?"); err != nil {
					return err
				}
			}
			if err := s.client.DeleteConversation(cmd.Context(), args[0]); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Conversation supprimée"))
			return nil
		}),
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}

func chatMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages <conversation-id>",
		Short: "Show the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ctx := cmd.Context()
			messages, err := s.client.ListMessages(ctx, args[0])
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), messages)

			if keep, _ := cmd.Flags().GetBool("keep-unread"); keep {
				return nil
			}
			return s.client.MarkMessagesRead(ctx, args[0])
		}),
	}

	cmd.Flags().Bool("keep-unread", false, "do not mark the messages as read")

	return cmd
}

func renderMessages(w io.Writer, messages []model.Message) {
	if len(messages) == 0 {
		printLine(w, cli.SubtleStyle.Render("Aucun message"))
		return
	}
	for _, m := range messages {
		who := "Client"
		style := cli.InfoStyle
		if m.SenderType == model.SenderAdmin {
			who = "KABA"
			style = cli.PromptStyle
		}
		printf(w, "%s %s\n", style.Render("["+cli.FormatDateTime(m.CreatedAt)+"] "+who+":"), m.Content)
	}
}

func chatSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <conversation-id> <message...>",
		Short: "Reply in a conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			content := strings.TrimSpace(strings.Join(args[1:], " "))
			if content == "" {
				return invalidInput("message", content, nil)
			}
			if _, err := s.client.SendMessage(cmd.Context(), args[0], content); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Message envoyé"))
			return nil
		}),
	}
}

func chatReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <conversation-id>",
		Short: "Mark the messages of a conversation as read",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.client.MarkMessagesRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Messages marqués comme lus"))
			return nil
		}),
	}
}
