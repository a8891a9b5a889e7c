package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/supabase"
)

const (
	eventMessagesUpsert = "messages.upsert"
	eventSendMessage    = "send.message"

	ReasonUnsupportedEvent = "unsupported event"
	ReasonUnsupportedType  = "type not supported"
)

type MessageProcessor struct {
	evolutionClient EvolutionClientInterface
	groqClient      GroqClientInterface
	storageClient   StorageClientInterface
	supabaseClient  SupabaseClientInterface
	cacheClient     CacheClientInterface
}

// NewMessageProcessor wires the pipeline collaborators. cacheClient may be
// nil, which disables the media cache.
func NewMessageProcessor(
	evolutionClient EvolutionClientInterface,
	groqClient GroqClientInterface,
	storageClient StorageClientInterface,
	supabaseClient SupabaseClientInterface,
	cacheClient CacheClientInterface,
) *MessageProcessor {
	return &MessageProcessor{
		evolutionClient: evolutionClient,
		groqClient:      groqClient,
		storageClient:   storageClient,
		supabaseClient:  supabaseClient,
		cacheClient:     cacheClient,
	}
}

// ProcessMessage classifies a webhook payload and runs the matching
// pipeline. The HTTP layer has already answered the caller by the time this
// runs, so errors are for logging only — nothing is retried at this level.
func (mp *MessageProcessor) ProcessMessage(ctx context.Context, payload WebhookPayload) (Result, error) {
	messageType := ""
	if payload.Data != nil {
		messageType = payload.Data.MessageType
	}

	log.Info().
		Str("event", payload.Event).
		Str("message_type", messageType).
		Str("instance", payload.Instance).
		Msg("Processing webhook event")

	if payload.Event != eventMessagesUpsert && payload.Event != eventSendMessage {
		log.Debug().Str("event", payload.Event).Msg("Ignoring unsupported event")
		return Result{Processed: false, Reason: ReasonUnsupportedEvent}, nil
	}

	var err error
	switch messageType {
	case "conversation":
		err = mp.processTextMessage(ctx, payload)
	case "imageMessage":
		err = mp.processImageMessage(ctx, payload)
	case "audioMessage":
		err = mp.processAudioMessage(ctx, payload)
	default:
		if payload.conversationText() != "" {
			err = mp.processTextMessage(ctx, payload)
		} else {
			log.Warn().Str("message_type", messageType).Msg("Unsupported message type")
			return Result{Processed: false, Reason: ReasonUnsupportedType}, nil
		}
	}

	if err != nil {
		return Result{}, err
	}
	return Result{Processed: true}, nil
}

func (mp *MessageProcessor) processTextMessage(ctx context.Context, payload WebhookPayload) error {
	telefone := ExtractPhoneNumber(payload.key())
	if telefone == "" {
		log.Warn().Msg("Could not extract phone number, skipping message")
		return nil
	}

	msg := supabase.Message{
		Telefone:  telefone,
		Instancia: payload.Instance,
		Remetente: remetente(payload.fromMe()),
		Mensagem:  payload.conversationText(),
		CriadoEm:  CurrentTimestamp(),
	}

	if err := mp.supabaseClient.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to persist text message: %w", err)
	}

	log.Info().Str("telefone", telefone).Msg("Text message processed")
	return nil
}

func (mp *MessageProcessor) processImageMessage(ctx context.Context, payload WebhookPayload) error {
	telefone := ExtractPhoneNumber(payload.key())
	if telefone == "" {
		log.Warn().Msg("Could not extract phone number, skipping message")
		return nil
	}

	if mp.storageClient == nil {
		return errors.New("object storage is not configured")
	}

	base64Image, err := mp.fetchMedia(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to fetch image media: %w", err)
	}
	if base64Image == "" {
		return errors.New("image payload not found in media response")
	}

	imageURL, err := mp.storageClient.UploadImage(ctx, base64Image, telefone)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	mensagem := payload.imageCaption()
	if mensagem == "" {
		mensagem = fmt.Sprintf("Imagem recebida: %s", imageURL)
	}

	msg := supabase.Message{
		Telefone:  telefone,
		Instancia: payload.Instance,
		Remetente: remetente(payload.fromMe()),
		Mensagem:  mensagem,
		CriadoEm:  CurrentTimestamp(),
	}

	if err := mp.supabaseClient.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to persist image message: %w", err)
	}

	log.Info().Str("telefone", telefone).Str("image_url", imageURL).Msg("Image message processed")
	return nil
}

func (mp *MessageProcessor) processAudioMessage(ctx context.Context, payload WebhookPayload) error {
	telefone := ExtractPhoneNumber(payload.key())
	if telefone == "" {
		log.Warn().Msg("Could not extract phone number, skipping message")
		return nil
	}

	base64Audio, err := mp.fetchMedia(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to fetch audio media: %w", err)
	}
	if base64Audio == "" {
		return errors.New("audio payload not found in media response")
	}

	transcription, err := mp.groqClient.Transcribe(ctx, base64Audio)
	if err != nil {
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}

	msg := supabase.Message{
		Telefone:  telefone,
		Instancia: payload.Instance,
		Remetente: remetente(payload.fromMe()),
		Mensagem:  fmt.Sprintf("Áudio transcrito: %s", transcription),
		CriadoEm:  CurrentTimestamp(),
	}

	if err := mp.supabaseClient.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to persist audio message: %w", err)
	}

	log.Info().Str("telefone", telefone).Msg("Audio message processed")
	return nil
}

// fetchMedia retrieves the base64 payload for the message, consulting the
// cache first when one is configured.
func (mp *MessageProcessor) fetchMedia(ctx context.Context, payload WebhookPayload) (string, error) {
	messageID := payload.messageID()

	if mp.cacheClient != nil {
		if data, ok := mp.cacheClient.GetMedia(ctx, messageID); ok {
			log.Debug().Str("message_id", messageID).Msg("Media cache hit")
			return data, nil
		}
	}

	data, err := mp.evolutionClient.GetMediaBase64(ctx, payload.ServerURL, payload.Instance, payload.APIKey, messageID)
	if err != nil {
		return "", err
	}

	if data != "" && mp.cacheClient != nil {
		mp.cacheClient.SetMedia(ctx, messageID, data)
	}

	return data, nil
}

func remetente(fromMe bool) string {
	if fromMe {
		return "Agente"
	}
	return "Cliente"
}
